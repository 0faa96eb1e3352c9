package compute

// Command types
const (
	CommandGet      = "GET"
	CommandSet      = "SET"
	CommandDel      = "DEL"
	CommandSAdd     = "SADD"
	CommandSMembers = "SMEMBERS"
	CommandPublish  = "PUBLISH"
	CommandPing     = "PING"
	CommandHelp     = "HELP"
)

// Response messages
const (
	ResponseOK    = "OK"
	ResponsePong  = "PONG"
	ResponseNil   = "(nil)"
	ResponseEmpty = "(empty array)"
)

// HelpMessage lists the supported commands
const HelpMessage = `Available commands:
  SET <key> <value>            Set key to hold the string value
  GET <key>                    Get the value of key
  DEL <key> [key ...]          Delete one or more keys
  SADD <key> <member> [...]    Add members to the set stored at key
  SMEMBERS <key>               Get all the members of the set stored at key
  PUBLISH <channel> <message>  Post a message to a channel
  PING                         Check the connection
  HELP                         Show this message
  EXIT                         Leave the shell`
