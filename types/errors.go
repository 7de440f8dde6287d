package types

import "errors"

var (
	ErrNotFound       = errors.New("ErrNotFound")
	ErrDecode         = errors.New("ErrDecode")
	ErrAmount         = errors.New("ErrAmount")
	ErrNoBalance      = errors.New("ErrNoBalance")
	ErrSendSameToRecv = errors.New("ErrSendSameToRecv")
	ErrActionNotExist = errors.New("ErrActionNotExist")
	ErrQueryNotExist  = errors.New("ErrQueryNotExist")
	ErrExecerNotExist = errors.New("ErrExecerNotExist")
	ErrChainNotExist  = errors.New("ErrChainNotExist")
	ErrIsClosed       = errors.New("ErrIsClosed")
	ErrInvalidParam   = errors.New("ErrInvalidParam")
)
