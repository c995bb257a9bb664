package main

// @title Catalog Admin API
// @version 1.0
// @description Product catalog administration backend: brand hierarchy, categories, products with soft delete and stock, product images with placeholder fallback
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Auth
// @tag.description Account registration and login

// @tag.name Brands
// @tag.description Brand hierarchy

// @tag.name Categories
// @tag.description Product categories

// @tag.name Products
// @tag.description Products, stock and soft delete

// @tag.name Product Images
// @tag.description Image upload, ordering and attachment

// @tag.name Health
// @tag.description Health check endpoints
