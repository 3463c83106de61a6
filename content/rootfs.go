package content

import (
	"io/fs"
	"os"
)

// rootFS is an fs.FS over a directory that reopens the directory with
// os.OpenRoot on every Open, so paths can escape it neither through ".."
// nor through symlinks, and a posts root created after startup is picked up.
type rootFS string

func (dir rootFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	root, err := os.OpenRoot(string(dir))
	if err != nil {
		return nil, err
	}
	defer root.Close()

	f, err := root.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}
