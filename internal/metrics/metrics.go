// Package metrics exposes the prometheus collectors for the import pipeline,
// supplier dispatch and uploads.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	importRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_requests_total",
			Help: "Product import requests by supplier and outcome.",
		},
		[]string{"supplier", "outcome"},
	)
	supplierOrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "supplier_orders_total",
			Help: "Orders dispatched to suppliers by resulting status.",
		},
		[]string{"status"},
	)
	uploadFilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_files_total",
			Help: "Uploaded image files by outcome.",
		},
		[]string{"outcome"},
	)
	scrapeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "Time spent scraping a supplier product page.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 45},
		},
		[]string{"supplier", "outcome"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "route", "status"},
	)
)

func init() {
	prometheus.MustRegister(importRequestsTotal)
	prometheus.MustRegister(supplierOrdersTotal)
	prometheus.MustRegister(uploadFilesTotal)
	prometheus.MustRegister(scrapeDuration)
	prometheus.MustRegister(httpRequestDuration)
}

// RecordImport counts one import attempt.
func RecordImport(supplier, outcome string) {
	importRequestsTotal.WithLabelValues(labelOr(supplier, "unknown"), outcome).Inc()
}

// RecordSupplierOrder counts one dispatch by its final status.
func RecordSupplierOrder(status string) {
	supplierOrdersTotal.WithLabelValues(status).Inc()
}

// RecordUploads counts n files with the same outcome.
func RecordUploads(outcome string, n int) {
	uploadFilesTotal.WithLabelValues(outcome).Add(float64(n))
}

// ObserveScrape records how long a scrape took.
func ObserveScrape(supplier string, success bool, d time.Duration) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	scrapeDuration.WithLabelValues(labelOr(supplier, "unknown"), outcome).Observe(d.Seconds())
}

// Middleware records request durations labelled by route template so that
// path parameters do not explode cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			httpRequestDuration.WithLabelValues(c.Request().Method, route, classifyStatus(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}

func classifyStatus(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}

func labelOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
