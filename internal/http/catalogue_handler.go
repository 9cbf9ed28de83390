package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/distribution-service/internal/domain/dto"
	"github.com/guttosm/distribution-service/internal/middleware"
)

// CreateProduct handles POST /api/products.
//
// @Summary      Create product
// @Description  Adds a catalogue product and opens its warehouse stock at zero.
// @Tags         Catalogue
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        request body dto.ProductRequest true "Product"
// @Success      201 {object} dto.SuccessResponse{data=model.Product}
// @Failure      400 {object} dto.ErrorResponse "Invalid product"
// @Failure      401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure      403 {object} dto.ErrorResponse "Admin only"
// @Failure      409 {object} dto.ErrorResponse "Product already exists"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.ProductRequest](c)
	if err != nil {
		builder.Fail(err)
		return
	}

	product, err := h.svc.Catalogue.CreateProduct(c.Request.Context(), h.session(c), req.Product())
	if err != nil {
		h.auditError(c, middleware.ActionCreateProduct, "Product creation failed", err, map[string]interface{}{
			"name": req.Name,
		})
		builder.Fail(err)
		return
	}

	h.audit(c, middleware.ActionCreateProduct, "Product created", map[string]interface{}{
		"product_id":  product.ID,
		"pcs_per_box": product.ResolvePcsPerBox(),
	})
	builder.SuccessCreated(product)
}

// UpdateProduct handles PUT /api/products/:id.
//
// @Summary      Update product
// @Description  Replaces name, prices and box size. Existing stock keeps its piece totals.
// @Tags         Catalogue
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body dto.ProductRequest true "Product"
// @Success      200 {object} dto.SuccessResponse{data=model.Product}
// @Failure      400 {object} dto.ErrorResponse "Invalid product"
// @Failure      403 {object} dto.ErrorResponse "Admin only"
// @Failure      404 {object} dto.ErrorResponse "Product not found"
// @Failure      500 {object} dto.ErrorResponse "Internal server error"
// @Security     BearerAuth
// @Router       /api/products/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.ProductRequest](c)
	if err != nil {
		builder.Fail(err)
		return
	}
	product := req.Product()
	product.ID = c.Param("id")

	updated, err := h.svc.Catalogue.UpdateProduct(c.Request.Context(), h.session(c), product)
	if err != nil {
		builder.Fail(err)
		return
	}

	h.audit(c, middleware.ActionUpdateProduct, "Product updated", map[string]interface{}{
		"product_id": updated.ID,
	})
	builder.SuccessOK(updated)
}

// GetProduct handles GET /api/products/:id.
//
// @Summary      Get product
// @Tags         Catalogue
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.SuccessResponse{data=model.Product}
// @Failure      404 {object} dto.ErrorResponse "Product not found"
// @Security     BearerAuth
// @Router       /api/products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	builder := NewResponseBuilder(c)

	product, err := h.svc.Catalogue.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(product)
}

// ListProducts handles GET /api/products.
//
// @Summary      List products
// @Tags         Catalogue
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]model.Product}
// @Security     BearerAuth
// @Router       /api/products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	builder := NewResponseBuilder(c)

	products, err := h.svc.Catalogue.ListProducts(c.Request.Context())
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(products)
}

// CreateRoute handles POST /api/routes.
//
// @Summary      Create route
// @Tags         Routes
// @Accept       json
// @Produce      json
// @Param        request body dto.RouteRequest true "Route"
// @Success      201 {object} dto.SuccessResponse{data=model.Route}
// @Failure      400 {object} dto.ErrorResponse "Invalid route"
// @Failure      403 {object} dto.ErrorResponse "Admin only"
// @Failure      409 {object} dto.ErrorResponse "Route already exists"
// @Security     BearerAuth
// @Router       /api/routes [post]
func (h *Handler) CreateRoute(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.RouteRequest](c)
	if err != nil {
		builder.Fail(err)
		return
	}

	route, err := h.svc.Routes.CreateRoute(c.Request.Context(), h.session(c), req.Route())
	if err != nil {
		builder.Fail(err)
		return
	}

	h.audit(c, middleware.ActionCreateRoute, "Route created", map[string]interface{}{
		"route_id": route.ID,
	})
	builder.SuccessCreated(route)
}

// ListRoutes handles GET /api/routes.
//
// @Summary      List routes
// @Tags         Routes
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]model.Route}
// @Security     BearerAuth
// @Router       /api/routes [get]
func (h *Handler) ListRoutes(c *gin.Context) {
	builder := NewResponseBuilder(c)

	routes, err := h.svc.Routes.ListRoutes(c.Request.Context())
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(routes)
}

// GetRoute handles GET /api/routes/:id.
//
// @Summary      Get route
// @Tags         Routes
// @Produce      json
// @Param        id path string true "Route ID"
// @Success      200 {object} dto.SuccessResponse{data=model.Route}
// @Failure      404 {object} dto.ErrorResponse "Route not found"
// @Security     BearerAuth
// @Router       /api/routes/{id} [get]
func (h *Handler) GetRoute(c *gin.Context) {
	builder := NewResponseBuilder(c)

	route, err := h.svc.Routes.GetRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(route)
}
