// Package errno defines the POSIX-derived error numbers carried by file errors
// and the mapping from Go I/O failures onto them.
//
// Numbers starting with E map to the POSIX definitions. NotSet is not a POSIX
// value; it applies whenever no method-specific or POSIX value fits.
package errno

import (
	"fmt"
	"strings"
)

// Number is a classified error number.
type Number int

const (
	// NotSet is used when no more specific number applies.
	NotSet Number = iota

	E2BIG
	EACCES
	EAGAIN
	EBADF
	EBADMSG
	EBUSY
	ECANCELED
	ECHILD
	EDEADLK
	EDOM
	EEXIST
	EFAULT
	EFBIG
	EINPROGRESS
	EINTR
	EINVAL
	EIO
	EISDIR
	EMFILE
	EMLINK
	EMSGSIZE
	ENAMETOOLONG
	ENFILE
	ENODEV
	ENOENT
	ENOEXEC
	ENOLCK
	ENOMEM
	ENOSPC
	ENOSYS
	ENOTDIR
	ENOTEMPTY
	ENOTSUP
	ENOTTY
	ENXIO
	EPERM
	EPIPE
	ERANGE
	EROFS
	ESPIPE
	ESRCH
	ETIMEDOUT
	EXDEV

	numberCount
)

// prefix keeps the symbols out of the way of the platform's own E* names.
const prefix = "CF_"

var numbers = [numberCount]struct {
	name string
	desc string
}{
	NotSet:       {"NOTSET", "error number not set"},
	E2BIG:        {"E2BIG", "argument list too long"},
	EACCES:       {"EACCES", "permission denied"},
	EAGAIN:       {"EAGAIN", "resource temporarily unavailable"},
	EBADF:        {"EBADF", "bad file descriptor"},
	EBADMSG:      {"EBADMSG", "bad message"},
	EBUSY:        {"EBUSY", "device or resource busy"},
	ECANCELED:    {"ECANCELED", "operation canceled"},
	ECHILD:       {"ECHILD", "no child processes"},
	EDEADLK:      {"EDEADLK", "resource deadlock avoided"},
	EDOM:         {"EDOM", "numerical argument out of domain"},
	EEXIST:       {"EEXIST", "file exists"},
	EFAULT:       {"EFAULT", "bad address"},
	EFBIG:        {"EFBIG", "file too large"},
	EINPROGRESS:  {"EINPROGRESS", "operation now in progress"},
	EINTR:        {"EINTR", "interrupted system call"},
	EINVAL:       {"EINVAL", "invalid argument"},
	EIO:          {"EIO", "input/output error"},
	EISDIR:       {"EISDIR", "is a directory"},
	EMFILE:       {"EMFILE", "too many open files"},
	EMLINK:       {"EMLINK", "too many links"},
	EMSGSIZE:     {"EMSGSIZE", "message too long"},
	ENAMETOOLONG: {"ENAMETOOLONG", "file name too long"},
	ENFILE:       {"ENFILE", "too many open files in system"},
	ENODEV:       {"ENODEV", "no such device"},
	ENOENT:       {"ENOENT", "no such file or directory"},
	ENOEXEC:      {"ENOEXEC", "exec format error"},
	ENOLCK:       {"ENOLCK", "no locks available"},
	ENOMEM:       {"ENOMEM", "cannot allocate memory"},
	ENOSPC:       {"ENOSPC", "no space left on device"},
	ENOSYS:       {"ENOSYS", "function not implemented"},
	ENOTDIR:      {"ENOTDIR", "not a directory"},
	ENOTEMPTY:    {"ENOTEMPTY", "directory not empty"},
	ENOTSUP:      {"ENOTSUP", "operation not supported"},
	ENOTTY:       {"ENOTTY", "inappropriate ioctl for device"},
	ENXIO:        {"ENXIO", "no such device or address"},
	EPERM:        {"EPERM", "operation not permitted"},
	EPIPE:        {"EPIPE", "broken pipe"},
	ERANGE:       {"ERANGE", "numerical result out of range"},
	EROFS:        {"EROFS", "read-only file system"},
	ESPIPE:       {"ESPIPE", "illegal seek"},
	ESRCH:        {"ESRCH", "no such process"},
	ETIMEDOUT:    {"ETIMEDOUT", "connection timed out"},
	EXDEV:        {"EXDEV", "invalid cross-device link"},
}

// Valid reports whether n is one of the defined numbers.
func (n Number) Valid() bool {
	return n >= NotSet && n < numberCount
}

// String returns the symbolic name, e.g. "CF_ENOENT".
func (n Number) String() string {
	if !n.Valid() {
		return fmt.Sprintf("%sUNKNOWN(%d)", prefix, int(n))
	}
	return prefix + numbers[n].name
}

// Description returns a short human readable phrase for n.
func (n Number) Description() string {
	if !n.Valid() {
		return "unknown error number"
	}
	return numbers[n].desc
}

// Numbers returns every defined number, NotSet first.
func Numbers() []Number {
	all := make([]Number, 0, numberCount)
	for n := NotSet; n < numberCount; n++ {
		all = append(all, n)
	}
	return all
}

// Parse converts a symbolic name back to a Number. Both "CF_ENOENT" and
// "ENOENT" are accepted, case-insensitively.
func Parse(s string) (Number, error) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), prefix)
	for n := NotSet; n < numberCount; n++ {
		if numbers[n].name == name {
			return n, nil
		}
	}
	return NotSet, fmt.Errorf("errno: unknown error number %q", s)
}
