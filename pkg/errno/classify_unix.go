//go:build linux || darwin

package errno

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

var platform = map[syscall.Errno]Number{
	unix.E2BIG:        E2BIG,
	unix.EACCES:       EACCES,
	unix.EAGAIN:       EAGAIN,
	unix.EBADF:        EBADF,
	unix.EBADMSG:      EBADMSG,
	unix.EBUSY:        EBUSY,
	unix.ECANCELED:    ECANCELED,
	unix.ECHILD:       ECHILD,
	unix.EDEADLK:      EDEADLK,
	unix.EDOM:         EDOM,
	unix.EEXIST:       EEXIST,
	unix.EFAULT:       EFAULT,
	unix.EFBIG:        EFBIG,
	unix.EINPROGRESS:  EINPROGRESS,
	unix.EINTR:        EINTR,
	unix.EINVAL:       EINVAL,
	unix.EIO:          EIO,
	unix.EISDIR:       EISDIR,
	unix.EMFILE:       EMFILE,
	unix.EMLINK:       EMLINK,
	unix.EMSGSIZE:     EMSGSIZE,
	unix.ENAMETOOLONG: ENAMETOOLONG,
	unix.ENFILE:       ENFILE,
	unix.ENODEV:       ENODEV,
	unix.ENOENT:       ENOENT,
	unix.ENOEXEC:      ENOEXEC,
	unix.ENOLCK:       ENOLCK,
	unix.ENOMEM:       ENOMEM,
	unix.ENOSPC:       ENOSPC,
	unix.ENOSYS:       ENOSYS,
	unix.ENOTDIR:      ENOTDIR,
	unix.ENOTEMPTY:    ENOTEMPTY,
	unix.ENOTSUP:      ENOTSUP,
	unix.ENOTTY:       ENOTTY,
	unix.ENXIO:        ENXIO,
	unix.EPERM:        EPERM,
	unix.EPIPE:        EPIPE,
	unix.ERANGE:       ERANGE,
	unix.EROFS:        EROFS,
	unix.ESPIPE:       ESPIPE,
	unix.ESRCH:        ESRCH,
	unix.ETIMEDOUT:    ETIMEDOUT,
	unix.EXDEV:        EXDEV,
}

// classifyPlatform looks for an errno in the chain. An errno outside the table
// is still a platform answer and classifies as NotSet.
func classifyPlatform(err error) (Number, bool) {
	var e syscall.Errno
	if !errors.As(err, &e) {
		return NotSet, false
	}
	if n, ok := platform[e]; ok {
		return n, true
	}
	return NotSet, true
}
