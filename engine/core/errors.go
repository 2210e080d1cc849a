package core

import (
	"errors"
)

var (
	ErrUnknown = errors.New("unknown")

	// ErrCapacityExceeded is returned by a flush that had to drop batches
	// because the overlap working set was full.
	ErrCapacityExceeded = errors.New("sorting: overlap working set capacity exceeded")
	// ErrInvalidGeometry signals a submission whose range does not fit the bound buffers.
	ErrInvalidGeometry = errors.New("sorting: invalid geometry range")
	// ErrIndexOutOfRange signals a triangle index outside [min vertex, min vertex + vertex count).
	ErrIndexOutOfRange = errors.New("sorting: triangle index out of declared vertex range")
	// ErrNotSortable signals a submission whose bound buffers are not of the sortable class.
	ErrNotSortable = errors.New("sorting: bound buffers are not sortable")
	// ErrNonFiniteDepth signals a batch whose depth key is NaN or infinite.
	ErrNonFiniteDepth = errors.New("sorting: non-finite depth key")
	// ErrReentrantFlush is returned when Flush is called while a flush is running.
	ErrReentrantFlush = errors.New("sorting: flush called reentrantly")
	// ErrSorterClosed is returned by any operation after Deinit.
	ErrSorterClosed = errors.New("sorting: sorter already deinitialized")
	// ErrInvalidConfig signals a configuration value outside its allowed range.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrBufferLocked is returned when a buffer is locked twice or drawn while locked.
	ErrBufferLocked = errors.New("buffer already locked")
)
