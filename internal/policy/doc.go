// Package policy is the reference sanitizer policy: a YAML rule list that
// maps each file (by extension, mimetype or source path) to an action.
//
//	default: unknown
//	symlinks: skip
//	broken_mime: dangerous
//	rules:
//	  - name: executables
//	    extensions: [".exe", ".dll"]
//	    mimetypes: ["application/vnd.microsoft.portable-executable"]
//	    paths: ["**/autorun.inf"]
//	    action: dangerous
//	  - name: text
//	    mimetypes: ["text/*"]
//	    action: copy
//	    force_ext: ".txt"
//
// A rule matches when any of its extensions, mimetypes or paths matches; the
// first matching rule wins and unmatched files get the default action.
// Mimetype and path patterns use doublestar syntax. Paths are relative to
// the source root with forward slashes and compare case-insensitively, as
// do extensions.
//
// A symlinks action other than skip dereferences the link: the target's
// content is what gets marked and copied. Links that are broken or whose
// target resolves outside the source root are never followed; they are
// logged with link_refused and skipped.
package policy
