package errors

import "errors"

// ErrKeyNotFound 持久化存储中不存在该逻辑键
var ErrKeyNotFound = errors.New("存储键不存在")

// ErrStoreUnavailable 持久化后端不可用（连接失败或已关闭）
var ErrStoreUnavailable = errors.New("持久化存储不可用")
