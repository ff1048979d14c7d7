package handler

import (
	"context"

	"github.com/billmaster/backend/internal/application/inventory"
	"github.com/billmaster/backend/internal/application/partner"
	"github.com/billmaster/backend/internal/domain/identity"
	"github.com/billmaster/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ItemService manages stock items
type ItemService interface {
	Create(ctx context.Context, actor identity.Actor, req inventory.CreateItemRequest) (*inventory.ItemResponse, error)
	Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*inventory.ItemResponse, error)
	List(ctx context.Context, actor identity.Actor, req inventory.ListItemsRequest) (*shared.Paginated[inventory.ItemResponse], error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req inventory.UpdateItemRequest) (*inventory.ItemResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

// CategoryService manages item categories
type CategoryService interface {
	Create(ctx context.Context, actor identity.Actor, req inventory.CreateCategoryRequest) (*inventory.CategoryResponse, error)
	List(ctx context.Context, actor identity.Actor) ([]inventory.CategoryResponse, error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req inventory.UpdateCategoryRequest) (*inventory.CategoryResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

// CustomerService manages customers
type CustomerService interface {
	Create(ctx context.Context, actor identity.Actor, req partner.CreateCustomerRequest) (*partner.CustomerResponse, error)
	Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*partner.CustomerResponse, error)
	List(ctx context.Context, actor identity.Actor, req partner.ListCustomersRequest) (*shared.Paginated[partner.CustomerResponse], error)
	Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req partner.UpdateCustomerRequest) (*partner.CustomerResponse, error)
	Delete(ctx context.Context, actor identity.Actor, id uuid.UUID) error
}

// ItemHandler handles /items
type ItemHandler struct {
	BaseHandler
	items ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(items ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// Create godoc
// @ID           createItem
// @Summary      Create a stock item
// @Description  Add an item to the catalogue with its opening stock
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request body inventory.CreateItemRequest true "Item creation request"
// @Success      201 {object} dto.Response{data=inventory.ItemResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      403 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventory.CreateItemRequest
	if !h.bind(c, &req) {
		return
	}
	item, err := h.items.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Get godoc
// @ID           getItemById
// @Summary      Get item by ID
// @Tags         items
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventory.ItemResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /items/{id} [get]
func (h *ItemHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	item, err := h.items.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List godoc
// @ID           listItems
// @Summary      List items
// @Description  Page through items ordered by name
// @Tags         items
// @Produce      json
// @Param        search query string false "Name search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]inventory.ItemResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /items [get]
func (h *ItemHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventory.ListItemsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.items.List(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Update godoc
// @ID           updateItem
// @Summary      Update an item
// @Description  Edit catalogue fields, correct stock on hand after a stock take, or change status
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body inventory.UpdateItemRequest true "Item update request"
// @Success      200 {object} dto.Response{data=inventory.ItemResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req inventory.UpdateItemRequest
	if !h.bind(c, &req) {
		return
	}
	item, err := h.items.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @ID           deleteItem
// @Summary      Delete an item
// @Description  Retire an item so it can no longer be billed; past invoices keep it
// @Tags         items
// @Param        id path string true "Item ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CategoryHandler handles /categories
type CategoryHandler struct {
	BaseHandler
	categories CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Create godoc
// @ID           createCategory
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body inventory.CreateCategoryRequest true "Category creation request"
// @Success      201 {object} dto.Response{data=inventory.CategoryResponse}
// @Failure      400 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventory.CreateCategoryRequest
	if !h.bind(c, &req) {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// List godoc
// @ID           listCategories
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200 {object} dto.Response{data=[]inventory.CategoryResponse}
// @Failure      401 {object} dto.Response
// @Security     BearerAuth
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	categories, err := h.categories.List(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if categories == nil {
		categories = []inventory.CategoryResponse{}
	}
	h.Success(c, categories)
}

// Update godoc
// @ID           updateCategory
// @Summary      Rename a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body inventory.UpdateCategoryRequest true "Category update request"
// @Success      200 {object} dto.Response{data=inventory.CategoryResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req inventory.UpdateCategoryRequest
	if !h.bind(c, &req) {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete godoc
// @ID           deleteCategory
// @Summary      Delete a category
// @Description  Remove a category; its items are kept and become uncategorised
// @Tags         categories
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CustomerHandler handles /customers
type CustomerHandler struct {
	BaseHandler
	customers CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customers CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body partner.CreateCustomerRequest true "Customer creation request"
// @Success      201 {object} dto.Response{data=partner.CustomerResponse}
// @Failure      400 {object} dto.Response
// @Failure      401 {object} dto.Response
// @Failure      500 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req partner.CreateCustomerRequest
	if !h.bind(c, &req) {
		return
	}
	cust, err := h.customers.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cust)
}

// Get godoc
// @ID           getCustomerById
// @Summary      Get customer by ID
// @Description  Retrieve a customer with their outstanding credit
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} dto.Response{data=partner.CustomerResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	cust, err := h.customers.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cust)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search query string false "Name or phone search"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]partner.CustomerResponse}
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req partner.ListCustomersRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.customers.List(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Description  Edit contact details; outstanding credit is not editable
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body partner.UpdateCustomerRequest true "Customer update request"
// @Success      200 {object} dto.Response{data=partner.CustomerResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      409 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req partner.UpdateCustomerRequest
	if !h.bind(c, &req) {
		return
	}
	cust, err := h.customers.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cust)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Description  Delete a customer with no outstanding credit and no invoices
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.customers.Delete(c.Request.Context(), actor, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
