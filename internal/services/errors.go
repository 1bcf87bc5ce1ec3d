package services

import "errors"

// Setup service errors
var (
	ErrStoreNotReady   = errors.New("option store is not reachable")
	ErrRendererMissing = errors.New("setup service has no renderer")
)
