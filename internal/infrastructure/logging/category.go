package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	Internal        Category = "Internal"
	WebSocket       Category = "WebSocket"
	Redis           Category = "Redis"
	RabbitMQ        Category = "RabbitMQ"
	Mongo           Category = "Mongo"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	ExternalService SubCategory = "ExternalService"

	// WebSocket
	Handshake SubCategory = "Handshake"
	Fanout    SubCategory = "Fanout"
	Presence  SubCategory = "Presence"
	Typing    SubCategory = "Typing"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	UserId       ExtraKey = "UserId"
	SessionId    ExtraKey = "SessionId"
	EventKind    ExtraKey = "EventKind"
	ChannelId    ExtraKey = "ChannelId"
	ServerId     ExtraKey = "ServerId"
	Recipients   ExtraKey = "Recipients"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"
)
