package tgCallback

const (
	Refresh = "board_refresh"
)
