package editor

import "context"

// DefaultName is the file name proposed when saving a copy.
const DefaultName = "Untitled1"

// Filter describes the files a picker offers.
type Filter struct {
	Title    string
	Formats  []Format
	Selected Format
}

// OpenFilter returns the filter used to open an image.
func OpenFilter() Filter {
	return Filter{
		Title:   "Open an image",
		Formats: Formats(),
	}
}

// SaveFilter returns the filter used to save an image,
// with the given format preselected.
func SaveFilter(selected Format) Filter {
	return Filter{
		Title:    "Save image as ...",
		Formats:  Formats(),
		Selected: selected,
	}
}

// FilePicker lets the user choose a file to open or a destination.
// Both methods return ErrCancelled when the user gives up.
type FilePicker interface {
	ChooseOpenPath(ctx context.Context, filter Filter) (string, error)
	ChooseSavePath(ctx context.Context, filter Filter, defaultName string) (string, error)
}
