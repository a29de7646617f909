package model

const (
	EventBoard        = "board"
	EventTransactions = "transactions"
)

// Event is one push to attached widget clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func BoardEvent(snapshot BoardSnapshot) Event {
	return Event{Type: EventBoard, Payload: snapshot}
}

func TransactionsEvent(transactions []Transaction) Event {
	return Event{Type: EventTransactions, Payload: transactions}
}
