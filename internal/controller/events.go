package controller

import (
	"context"

	"vgdb-cli/internal/model"
)

// Task is one unit of I/O issued by the controller. Hosts run it off the event loop and pass
// the returned Event back to Apply. A nil Task means there is nothing to run.
type Task func(ctx context.Context) Event

// Event is the result of a Task. The concrete types are private to this package.
type Event interface{ event() }

type fetchPurpose int

const (
	fetchReload fetchPurpose = iota
	fetchSelect
)

type listLoaded struct {
	gen      uint64
	purpose  fetchPurpose
	selectID model.ID
	games    []model.Game
	err      error
}

type userLoaded struct {
	gen  uint64
	user model.User
	err  error
}

type mutationOp int

const (
	opCreate mutationOp = iota
	opUpdate
	opDelete
)

func (op mutationOp) String() string {
	switch op {
	case opCreate:
		return "Create"
	case opUpdate:
		return "Update"
	default:
		return "Delete"
	}
}

type mutationDone struct {
	op  mutationOp
	id  model.ID
	err error
}

type authOp int

const (
	authRegister authOp = iota
	authLogin
	authLogout
)

type authDone struct {
	op  authOp
	err error
}

func (listLoaded) event()   {}
func (userLoaded) event()   {}
func (mutationDone) event() {}
func (authDone) event()     {}
