package io

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Console errors
	ErrConsoleMissing = errors.New(f("console output missing"))
)
