package types

type VersionCtxKey struct{}
