package importer

// FileAction controls what happens to the source files of each book.
type FileAction int

const (
	FileActionCopy FileAction = iota + 1
	FileActionMove
	// FileActionDoNothing records files in the catalog without touching the
	// filesystem. Useful when the library already lives at its final path.
	FileActionDoNothing
)

type Options struct {
	FileAction FileAction
	// AllowDuplication imports a book even when its uuid already exists in
	// the catalog.
	AllowDuplication bool
	UID              *int
	GID              *int
}

func DefaultOptions() Options {
	return Options{
		FileAction:       FileActionCopy,
		AllowDuplication: false,
	}
}
