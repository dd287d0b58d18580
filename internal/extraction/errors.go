package extraction

import "errors"

var ErrEmptyText = errors.New("document text must not be empty")
