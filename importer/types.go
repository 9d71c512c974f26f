package importer

// FileDescriptor describes one file found by the walker.
type FileDescriptor struct {
	AbsolutePath string
	Name         string
	Extension    string // lowercased, without the leading dot
}

// Target names where imported assets are registered: exactly one of
// Collection or Tag must be set.
type Target struct {
	Collection string
	Tag        string
}

// Validate enforces the exactly-one-target rule.
func (t Target) Validate() error {
	switch {
	case t.Collection != "" && t.Tag != "":
		return ErrAmbiguousTarget
	case t.Collection == "" && t.Tag == "":
		return ErrNoTarget
	}
	return nil
}

// Progress is called after each file is handled, with the number of files
// handled so far and the run total.
type Progress func(done, total int)
