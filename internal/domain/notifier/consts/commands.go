package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart  = Command{Name: "start", Description: "Открыть меню"}
	CommandCancel = Command{Name: "cancel", Description: "Отменить создание поста"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandCancel,
}

// Publish sources
const (
	SourceBot   = "bot"
	SourceHTTP  = "http"
	SourceKafka = "kafka"
)

// Limits
const (
	MaxMessageLength     = 4000
	DefaultListLimit     = 50
	MaxListLimit         = 500
	NotificationHeadline = "📢 Новое уведомление"
)
