package banks

import "github.com/pkg/errors"

var errDuplicateSlot = errors.New("duplicate bank slot")
var errInvalidParentSlot = errors.New("parent slot is not lower than bank slot")
var errNilBank = errors.New("nil bank")
