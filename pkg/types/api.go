package types

// RegisterRequest creates a new account via POST /users.
type RegisterRequest struct {
	// example: alice
	Username string `json:"username" example:"alice"`
	// example: hunter2hunter2
	Password string `json:"password" example:"hunter2hunter2"`
}

// LoginRequest opens a session via POST /auth.
type LoginRequest struct {
	// example: alice
	Username string `json:"username" example:"alice"`
	// example: hunter2hunter2
	Password string `json:"password" example:"hunter2hunter2"`
}

// LoginResponse carries the authenticated user and the bearer token for
// subsequent requests.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token" example:"9f2d1c..."`
}

// CreateFriendRequest adds a friendship via POST /friends.
type CreateFriendRequest struct {
	// Username to befriend.
	// example: bob
	Target string `json:"target" example:"bob"`
}

// CreateChatroomRequest creates a room via POST /chatrooms. The creator
// becomes the first member.
type CreateChatroomRequest struct {
	// example: general
	Name string `json:"name" example:"general"`
}

// CreateMessageRequest posts a message via POST /messages.
type CreateMessageRequest struct {
	// example: 1
	ChatroomID int64 `json:"chatroom" example:"1"`
	// example: hello there
	Text string `json:"text" example:"hello there"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
