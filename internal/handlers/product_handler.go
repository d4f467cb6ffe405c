package handlers

import (
	"log"

	"shoemart/internal/models"
	"shoemart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.CatalogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.CatalogService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber router.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/home", h.HandleHome)
	router.Get("/search", h.HandleSearch)
	router.Get("/categories", h.HandleGetCategories)

	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/category/:category", h.HandleGetProductsByCategory)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleHome returns the featured products and categories.
func (h *ProductHandler) HandleHome(c *fiber.Ctx) error {
	home, err := h.service.Home(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(home)
}

// HandleGetProducts lists products, optionally filtered by ?category=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page, err := h.service.Shop(c.UserContext(), c.Query("category"))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// HandleGetProductsByCategory lists the products of one category.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	products, err := h.service.ProductsByCategory(c.UserContext(), c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(products)
}

// HandleGetProductByID returns a product and its related products.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	detail, err := h.service.ProductDetail(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

// HandleSearch searches products by ?q=.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	result, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// HandleGetCategories lists the categories in use.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("[http] Error parsing product body: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	product, err := h.service.CreateProduct(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces every field of an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("[http] Error parsing product body: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	product, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
