package domain

import "time"

type LifecycleState uint8

const (
	StateActive LifecycleState = iota
	StateDeleted
)

func (s LifecycleState) String() string {
	if s == StateDeleted {
		return "DELETED"
	}
	return "ACTIVE"
}

// Lifecycle 软删状态，零值为 Active。
// Deleted 一定带删除时间，且不能回到 Active。
type Lifecycle struct {
	deletedAt time.Time
	deleted   bool
}

func Active() Lifecycle { return Lifecycle{} }

func DeletedAt(at time.Time) Lifecycle { return Lifecycle{deletedAt: at, deleted: true} }

func (l Lifecycle) State() LifecycleState {
	if l.deleted {
		return StateDeleted
	}
	return StateActive
}

func (l Lifecycle) IsActive() bool { return !l.deleted }

// DeletedAt Active 时 ok 为 false
func (l Lifecycle) DeletedAt() (at time.Time, ok bool) { return l.deletedAt, l.deleted }

// Delete 重复删除保留第一次的时间
func (l Lifecycle) Delete(at time.Time) Lifecycle {
	if l.deleted {
		return l
	}
	return DeletedAt(at)
}
