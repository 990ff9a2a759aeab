package chat

// Sender identifies who authored a transcript message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one transcript entry. Text is Markdown; rendering is up to the View.
type Message struct {
	Text   string
	Sender Sender
}

// Greeting is the first bot message once a conversation is ready.
const Greeting = "Hello! I am MediBot. How can I help you today?"
