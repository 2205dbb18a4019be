package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：带版本号的记录（如答辩排期）已被其他操作修改
var ErrOptimisticLock = errors.New("记录已被其他操作修改，请刷新后重试")
