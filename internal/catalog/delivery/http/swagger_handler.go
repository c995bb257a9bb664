package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListBrands godoc
// @Summary List brands
// @Description Flat list with parent and children, or a forest when hierarchical=true
// @Tags Brands
// @Produce json
// @Param is_active query bool false "Active filter"
// @Param roots_only query bool false "Only brands without a parent"
// @Param search query string false "Name or description contains"
// @Param sort_by query string false "name, created_at, updated_at or id"
// @Param sort_direction query string false "asc or desc"
// @Param hierarchical query bool false "Return a nested forest"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/brands [get]
func (h *CatalogHandler) ListBrandsDoc() {}

// GetBrand godoc
// @Summary Get a brand with ancestors, depth and product counts
// @Tags Brands
// @Produce json
// @Param id path int true "Brand ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/brands/{id} [get]
func (h *CatalogHandler) GetBrandDoc() {}

// CreateBrand godoc
// @Summary Create a brand
// @Tags Brands
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,parent_id=int,description=string,logo=string,is_active=bool} true "Brand data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/brands [post]
func (h *CatalogHandler) CreateBrandDoc() {}

// UpdateBrand godoc
// @Summary Update a brand
// @Description parent_id null makes the brand a root; a descendant as parent is rejected
// @Tags Brands
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Brand ID"
// @Param request body object{name=string,parent_id=int,description=string,logo=string,is_active=bool} true "Brand data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/brands/{id} [put]
func (h *CatalogHandler) UpdateBrandDoc() {}

// RemoveBrandParent godoc
// @Summary Make a brand a root
// @Tags Brands
// @Security BearerAuth
// @Produce json
// @Param id path int true "Brand ID"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/brands/{id}/remove-parent [post]
func (h *CatalogHandler) RemoveBrandParentDoc() {}

// DeleteBrand godoc
// @Summary Delete a brand without children or products
// @Tags Brands
// @Security BearerAuth
// @Produce json
// @Param id path int true "Brand ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/brands/{id} [delete]
func (h *CatalogHandler) DeleteBrandDoc() {}

// ListCategories godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Param is_active query bool false "Active filter"
// @Param search query string false "Name contains"
// @Param sort_by query string false "name, created_at or id"
// @Param sort_direction query string false "asc or desc"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/categories [get]
func (h *CatalogHandler) ListCategoriesDoc() {}

// CreateCategory godoc
// @Summary Create a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,is_active=bool} true "Category data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/categories [post]
func (h *CatalogHandler) CreateCategoryDoc() {}

// DeleteCategory godoc
// @Summary Delete a category without products
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 422 {object} object{success=bool,error=string}
// @Router /api/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategoryDoc() {}

// ListProducts godoc
// @Summary List products
// @Tags Products
// @Produce json
// @Param category_id query int false "Category filter"
// @Param brand_id query int false "Brand filter"
// @Param is_active query bool false "Active filter"
// @Param low_stock query bool false "Only products at or below min_stock"
// @Param search query string false "Name, description or EAN13 contains"
// @Param trashed query string false "without, with or only"
// @Success 200 {object} object{success=bool,data=object{products=array,total=int}}
// @Router /api/products [get]
func (h *CatalogHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get a product with its primary image and images
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Param with_trashed query bool false "Include soft-deleted"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/{id} [get]
func (h *CatalogHandler) GetProductDoc() {}

// CreateProduct godoc
// @Summary Create a product
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,category_id=int,brand_id=int,description=string,ean13=string,prix_achat=number,prix_vente=number,stock_quantity=int,min_stock=int,is_active=bool} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/products [post]
func (h *CatalogHandler) CreateProductDoc() {}

// UpdateStockByCode godoc
// @Summary Set stock by id or EAN13
// @Description The EAN13 is left-padded with zeros to 13 digits before lookup
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{id=int,ean13=string,stock_quantity=int} true "Stock data"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/products/stock-by-code [post]
func (h *CatalogHandler) UpdateStockByCodeDoc() {}

// ForceDeleteProduct godoc
// @Summary Permanently delete a soft-deleted product
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{id}/force-delete [delete]
func (h *CatalogHandler) ForceDeleteProductDoc() {}

// GetStats godoc
// @Summary Product statistics
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/products/statistics [get]
func (h *CatalogHandler) GetStatsDoc() {}

// UploadImages godoc
// @Summary Upload product images
// @Tags Product Images
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param product_id formData int false "Owning product; omit to upload orphans"
// @Param images[] formData file true "Up to 10 jpeg, png or gif files of 2 MB each"
// @Param alt_texts[] formData string false "Alt text per file"
// @Success 201 {object} object{success=bool,message=string,data=array}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/product-images [post]
func (h *CatalogHandler) UploadImagesDoc() {}

// ReorderImages godoc
// @Summary Reorder a product's images
// @Tags Product Images
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=int,image_ids=[]int} true "New order"
// @Success 200 {object} object{success=bool,message=string,data=array}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/product-images/reorder [post]
func (h *CatalogHandler) ReorderImagesDoc() {}

// AttachImages godoc
// @Summary Attach orphaned images to a product
// @Tags Product Images
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{product_id=int,image_ids=[]int} true "Images to attach"
// @Success 200 {object} object{success=bool,message=string,data=array}
// @Failure 422 {object} object{success=bool,error=string,errors=object}
// @Router /api/product-images/attach [post]
func (h *CatalogHandler) AttachImagesDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *CatalogHandler) HealthCheckDoc() {}
