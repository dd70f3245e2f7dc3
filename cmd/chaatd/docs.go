package main

// General API documentation for swaggo. Run `swag init` to regenerate docs.
//
// @title           ChaaAt API
// @version         1.0
// @description     HTTP API for the ChaaAt chat backend: accounts, friendships, chatrooms, messages, and long-poll update notifications.
//
// @BasePath  /
//
// @schemes http
