package errors

import "github.com/butter-bot-machines/cfile/pkg/errno"

// AsError returns the file error in err's chain, or nil
func AsError(err error) Error {
	if err == nil {
		return nil
	}
	var e Error
	if As(err, &e) {
		return e
	}
	return nil
}

// KindOf returns the kind of the file error in err's chain, or 0 if there is none
func KindOf(err error) Kind {
	if e := AsError(err); e != nil {
		return e.Kind()
	}
	return 0
}

// IsKind reports whether err carries a file error of kind k
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// NumberOf returns the classified number, falling back to errno.Classify for
// errors that are not file errors
func NumberOf(err error) errno.Number {
	if e := AsError(err); e != nil {
		return e.ErrorNumber()
	}
	return errno.Classify(err)
}

// MessageOf returns the message without the kind and code prefix
func MessageOf(err error) string {
	switch e := AsError(err).(type) {
	case *FileException:
		return e.Message
	case *IOException:
		return e.Message
	case *InvalidFilePointer:
		return ""
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
