package service

import (
	"fmt"

	"github.com/butter-bot-machines/cfile/pkg/errno"
	"github.com/butter-bot-machines/cfile/pkg/errors"
)

// Status is the opaque failure reported for any operation. It carries the
// kind, code and message of the file error it came from and nothing else.
type Status struct {
	Kind    string
	Code    errno.Number
	Message string
}

// StatusOf converts err. A nil err gives nil; an error that is not a file
// error gets kind "Unknown" and the classified code.
func StatusOf(err error) *Status {
	if err == nil {
		return nil
	}
	var s *Status
	if errors.As(err, &s) {
		return s
	}
	if e := errors.AsError(err); e != nil {
		return &Status{
			Kind:    e.Kind().String(),
			Code:    e.ErrorNumber(),
			Message: errors.MessageOf(e),
		}
	}
	return &Status{
		Kind:    "Unknown",
		Code:    errno.Classify(err),
		Message: err.Error(),
	}
}

func (s *Status) Error() string {
	if s.Message == "" {
		if s.Kind == errors.InvalidFilePointerKind.String() {
			return s.Kind
		}
		return fmt.Sprintf("%s(%s)", s.Kind, s.Code)
	}
	return fmt.Sprintf("%s(%s): %s", s.Kind, s.Code, s.Message)
}

func badHandle(op string, id HandleID) *Status {
	return &Status{
		Kind:    errors.FileExceptionKind.String(),
		Code:    errno.EBADF,
		Message: fmt.Sprintf("%s: unknown handle %d", op, id),
	}
}
