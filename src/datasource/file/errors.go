package file

import "errors"

// Load/Save 的失败类型, 用 errors.Is 判断
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrParse             = errors.New("parse error")
	ErrWrite             = errors.New("write error")
	ErrIO                = errors.New("io failure")
	ErrNoTable           = errors.New("no table")
)
