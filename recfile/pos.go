package recfile

// FileRef names the source a Pos refers to; it is kept as a distinct type
// in case we need to refactor what "a file" means later (embedded buffer,
// stdin, ...).
type FileRef string

// Pos is a line/column position within a FileRef, 1-based.
type Pos struct {
	File FileRef
	Line int
	Col  int
}
