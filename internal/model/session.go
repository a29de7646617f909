package model

type action int

const (
	DefaultAction action = iota
	ExpectingTransactionInput
)

type Session struct {
	Action action
}
