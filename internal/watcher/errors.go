package watcher

import "errors"

var errNothingToWatch = errors.New("no application directory could be watched")
