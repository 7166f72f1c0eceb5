// Package handler exposes the HTTP API. Every response uses a common
// {success, message, data} envelope; domain errors map to statuses in
// respond.go.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petfolk/pawmart/internal/auth"
	"github.com/petfolk/pawmart/internal/domain/appointment"
	"github.com/petfolk/pawmart/internal/domain/blog"
	"github.com/petfolk/pawmart/internal/domain/cart"
	"github.com/petfolk/pawmart/internal/domain/chat"
	"github.com/petfolk/pawmart/internal/domain/order"
	"github.com/petfolk/pawmart/internal/domain/payment"
	"github.com/petfolk/pawmart/internal/domain/pet"
	"github.com/petfolk/pawmart/internal/domain/product"
	"github.com/petfolk/pawmart/internal/domain/subscription"
	"github.com/petfolk/pawmart/internal/domain/user"
	"github.com/petfolk/pawmart/internal/domain/voucher"
)

// Handler bundles the domain services behind the HTTP API.
type Handler struct {
	issuer        *auth.Issuer
	users         *user.Service
	pets          *pet.Service
	appointments  *appointment.Service
	products      *product.Service
	carts         *cart.Service
	orders        *order.Service
	vouchers      voucher.Repository
	payments      *payment.Service
	subscriptions *subscription.Service
	blog          *blog.Service
	chat          *chat.Service
}

// Config carries the services wired into a Handler.
type Config struct {
	Issuer        *auth.Issuer
	Users         *user.Service
	Pets          *pet.Service
	Appointments  *appointment.Service
	Products      *product.Service
	Carts         *cart.Service
	Orders        *order.Service
	Vouchers      voucher.Repository
	Payments      *payment.Service
	Subscriptions *subscription.Service
	Blog          *blog.Service
	Chat          *chat.Service
}

// New creates a Handler from its service dependencies.
func New(cfg Config) *Handler {
	return &Handler{
		issuer:        cfg.Issuer,
		users:         cfg.Users,
		pets:          cfg.Pets,
		appointments:  cfg.Appointments,
		products:      cfg.Products,
		carts:         cfg.Carts,
		orders:        cfg.Orders,
		vouchers:      cfg.Vouchers,
		payments:      cfg.Payments,
		subscriptions: cfg.Subscriptions,
		blog:          cfg.Blog,
		chat:          cfg.Chat,
	}
}

// Routes builds the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints.
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Get("/products", h.listProducts)
		r.Get("/products/{id}", h.getProduct)

		r.Get("/branches", h.listBranches)

		r.Get("/blog", h.listPosts)
		r.Get("/blog/{slug}", h.getPost)

		r.Get("/plans", h.listPlans)

		// The gateway calls back without a bearer token; the request is
		// authenticated by its HMAC signature instead.
		r.Get("/payments/callback", h.paymentCallback)

		// Authenticated endpoints.
		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate)

			r.Get("/me", h.me)
			r.Put("/me", h.updateProfile)

			r.Route("/pets", func(r chi.Router) {
				r.Get("/", h.listPets)
				r.Post("/", h.createPet)
				r.Get("/{id}", h.getPet)
				r.Put("/{id}", h.updatePet)
				r.Delete("/{id}", h.deletePet)
				r.Get("/{id}/records", h.listHealthRecords)
				r.Post("/{id}/records", h.addHealthRecord)
				r.Delete("/{id}/records/{recordID}", h.deleteHealthRecord)
			})

			r.Route("/appointments", func(r chi.Router) {
				r.Get("/", h.listAppointments)
				r.Post("/", h.bookAppointment)
				r.Get("/{id}", h.getAppointment)
				r.Post("/{id}/cancel", h.cancelAppointment)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.getCart)
				r.Post("/items", h.addCartItem)
				r.Put("/items/{productID}", h.updateCartItem)
				r.Delete("/items/{productID}", h.removeCartItem)
				r.Delete("/", h.clearCart)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.listOrders)
				r.Post("/", h.checkout)
				r.Post("/checkout-cart", h.checkoutCart)
				r.Get("/{id}", h.getOrder)
				r.Post("/{id}/cancel", h.cancelOrder)
				r.Post("/{id}/pay", h.createPaymentURL)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/", h.listSubscriptions)
				r.Post("/", h.subscribe)
				r.Post("/{id}/renew", h.renewSubscription)
				r.Post("/{id}/cancel", h.cancelSubscription)
			})

			r.Route("/chat", func(r chi.Router) {
				r.Get("/", h.listConversations)
				r.Post("/", h.startConversation)
				r.Get("/{id}/messages", h.listMessages)
				r.Post("/{id}/messages", h.sendMessage)
			})
		})

		// Staff endpoints.
		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate, h.RequireStaff)

			r.Get("/staff/orders", h.listAllOrders)
			r.Put("/staff/orders/{id}/status", h.updateOrderStatus)
			r.Get("/staff/appointments", h.listBranchSchedule)
			r.Put("/staff/appointments/{id}/status", h.updateAppointmentStatus)

			r.Get("/staff/blog", h.listAllPosts)
			r.Post("/staff/blog", h.createPost)
			r.Put("/staff/blog/{id}", h.updatePost)
			r.Put("/staff/blog/{id}/publish", h.setPostPublished)
			r.Delete("/staff/blog/{id}", h.deletePost)
		})

		// Admin endpoints.
		r.Group(func(r chi.Router) {
			r.Use(h.Authenticate, h.RequireAdmin)

			r.Post("/admin/products", h.createProduct)
			r.Put("/admin/products/{id}", h.updateProduct)
			r.Delete("/admin/products/{id}", h.deactivateProduct)

			r.Get("/admin/vouchers", h.listVouchers)
			r.Post("/admin/vouchers", h.createVoucher)

			r.Post("/admin/plans", h.createPlan)
		})
	})

	return r
}
