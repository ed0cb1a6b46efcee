package greeting

// Data is the wire form of the greeting for both requests and responses.
// Unknown request fields are ignored.
type Data struct {
	_   struct{} `json:"-" additionalProperties:"true"`
	Msg string   `json:"msg" doc:"Greeting message" example:"Hello, World"`
}
