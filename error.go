package book

import "errors"

var (
	ErrInvalidParam = errors.New("the param is invalid")
	ErrDuplicateID  = errors.New("order id already exists")
	ErrNotFound     = errors.New("not found")
	ErrChecksum     = errors.New("snapshot checksum mismatch")
	ErrSchemaVer    = errors.New("unsupported snapshot schema version")
)
