package main

// @title Restaurant Backend API
// @version 1.0
// @description Restaurant operations backend: tables, reservations, menu, staff, orders, inventory and payments
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/tair/restaurant-backend
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/tair/restaurant-backend/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Login and registration

// @tag.name Users
// @tag.description Staff accounts and roles

// @tag.name Tables
// @tag.description Dining room layout and table status

// @tag.name Reservations
// @tag.description Booking, confirmation and availability

// @tag.name Menu
// @tag.description Categories and dishes

// @tag.name Orders
// @tag.description Orders, items and status flow

// @tag.name Inventory
// @tag.description Ingredients, recipes and stock movements

// @tag.name Payments
// @tag.description Payment processing and revenue statistics

// @tag.name Health
// @tag.description Health check endpoints
