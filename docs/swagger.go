// Package docs OUS Demographics API.
//
// Сервис демографии опроса использования океана. Считает респондентов и людей,
// чьи участки использования пересекают участок планирования, с разбивкой
// по сектору, атоллу, острову и орудию лова.
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package docs
