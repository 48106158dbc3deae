package script

import "github.com/spf13/afero"

// FsFactory returns the filesystem files are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}
