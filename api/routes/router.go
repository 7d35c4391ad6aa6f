package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shamsoul-ali/THE-VAULT/api/controllers"
	"github.com/shamsoul-ali/THE-VAULT/api/middleware"
	"github.com/shamsoul-ali/THE-VAULT/internal/carimages"
	"github.com/shamsoul-ali/THE-VAULT/internal/cars"
	"github.com/shamsoul-ali/THE-VAULT/internal/tours"
	"github.com/shamsoul-ali/THE-VAULT/pkg/config"
	"github.com/shamsoul-ali/THE-VAULT/pkg/logger"
	"github.com/shamsoul-ali/THE-VAULT/pkg/metrics"
	pkgredis "github.com/shamsoul-ali/THE-VAULT/pkg/redis"
)

// Dependencies carries everything the router hands to controllers and
// middleware. Nil pingers are left out of the readiness probe.
type Dependencies struct {
	Cars      cars.Service
	Images    carimages.Service
	Tours     tours.Service
	Profiles  middleware.RoleLookup
	Idempo    pkgredis.IdempotencyStore
	Pingers   map[string]controllers.Pinger
	Gatherer  prometheus.Gatherer
	HTTPStats *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)
	if deps.HTTPStats != nil {
		r.Use(middleware.Metrics(deps.HTTPStats))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readyChecks(deps.Pingers), logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	galleryLimit := cfg.Media.GalleryLimit

	r.Route("/api", func(r chi.Router) {
		r.Get("/car-images/{carId}", controllers.ListCarImages(deps.Images, logg))

		r.Route("/cars/{carId}", func(r chi.Router) {
			r.Get("/", controllers.GetCar(deps.Cars, logg))
			r.Put("/features", controllers.ReplaceCarFeatures(deps.Cars, logg))
			r.Get("/gallery-images", controllers.CarGallery(deps.Images, galleryLimit, logg))
		})

		r.Route("/virtual-tours/{carId}", func(r chi.Router) {
			r.Get("/", controllers.GetVirtualTour(deps.Tours, logg))
			r.Post("/", controllers.UpsertVirtualTour(deps.Tours, logg))
			r.Put("/", controllers.UpdateVirtualTour(deps.Tours, logg))
			r.Delete("/", controllers.DeleteVirtualTour(deps.Tours, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.Auth, deps.Profiles, logg))
			idempotent := middleware.Idempotency(deps.Idempo, cfg.Redis.IdempotencyTTL, logg)

			r.With(idempotent).Post("/cars", controllers.CreateCar(deps.Cars, logg))
			r.Route("/cars/{carId}", func(r chi.Router) {
				r.Patch("/", controllers.UpdateCar(deps.Cars, logg))
				r.Delete("/", controllers.DeleteCar(deps.Cars, logg))

				r.Get("/images", controllers.ListCarImages(deps.Images, logg))
				r.With(idempotent).Post("/images", controllers.UploadCarImage(deps.Images, cfg.Media.MaxImageBytes(), logg))
				r.With(idempotent).Post("/images/register", controllers.RegisterCarImage(deps.Images, logg))
				r.Put("/images/order", controllers.ReorderCarImages(deps.Images, logg))
				r.Post("/images/{imageId}/primary", controllers.PromoteCarImage(deps.Images, logg))
				r.Delete("/gallery", controllers.ClearGallerySelection(deps.Images, logg))

				r.Post("/virtual-tour/video", controllers.UploadTourVideo(deps.Tours, cfg.Media.MaxVideoBytes(), logg))
			})

			r.Route("/images/{imageId}", func(r chi.Router) {
				r.Patch("/", controllers.UpdateCarImage(deps.Images, logg))
				r.Delete("/", controllers.DeleteCarImage(deps.Images, logg))
				r.Post("/gallery", controllers.ToggleGallerySelection(deps.Images, logg))
			})
		})
	})

	return r
}

func readyChecks(pingers map[string]controllers.Pinger) map[string]controllers.Pinger {
	checks := make(map[string]controllers.Pinger, len(pingers))
	for name, p := range pingers {
		if p != nil {
			checks[name] = p
		}
	}
	return checks
}
