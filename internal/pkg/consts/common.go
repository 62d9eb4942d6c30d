package consts

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)
