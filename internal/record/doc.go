// Package record models a single file moving through a sanitization run.
//
// A [FileRecord] is built once per source file by [New], which classifies it
// (extension, mimetype, symlink) and seeds its ordered log map. Policy code
// then queries it ([FileRecord.HasMimetype], [FileRecord.IsSymlink], ...) and
// marks it ([FileRecord.MakeDangerous], [FileRecord.MakeUnknown],
// [FileRecord.MakeBinary], [FileRecord.ForceExtension]); every marking both
// updates the log map and rewrites the destination filename.
//
// A FileRecord is owned by one worker at a time and is not goroutine-safe.
package record
