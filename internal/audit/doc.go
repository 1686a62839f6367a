// Package audit writes the content manifest of a directory tree: a sorted,
// indented listing where every regular file carries the SHA-1 of its bytes
// and every symlink its target.
//
// The manifest is the baseline of what was present before a run touched
// anything, so it must be complete: any unreadable entry fails the whole
// audit with an [*Error].
//
// Format (initial padding is three spaces; each level adds "|  "):
//
//	################################################################################
//	   +- src/
//	   |  +-- a.txt	- aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d
//	################################################################################
//	   |  +- sub/
//	   |  |  +-- b.conf	- 2e7b5a3d...
//	   |  |  +-- link	- Symbolic link to ../a.txt
package audit
