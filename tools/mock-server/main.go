// Package main implements a mock retailer server for local development.
// It answers Croma order-promise, Vivo activity-info and BigBasket listing
// requests so a sweep or feed scan can run end to end without touching
// the real APIs.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const listingPageSize = 2

type listingFixture struct {
	Products []json.RawMessage `json:"products"`
}

// stockSet holds the product codes reported as in stock.
type stockSet map[string]bool

func parseStockSet(s string) stockSet {
	set := stockSet{}
	for _, code := range strings.Split(s, ",") {
		if code = strings.TrimSpace(code); code != "" {
			set[code] = true
		}
	}
	return set
}

func main() {
	port := flag.Int("port", 8089, "port to listen on")
	fixtureFile := flag.String("fixture", "tools/mock-server/testdata/listing_response.json", "path to listing fixture")
	inStock := flag.String("in-stock", "317398,2057", "comma-separated product codes reported in stock")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	fixture, err := loadFixture(*fixtureFile)
	if err != nil {
		logger.Error("failed to load fixture", "path", *fixtureFile, "error", err)
		os.Exit(1)
	}
	logger.Info("loaded fixture", "products", len(fixture.Products))

	stock := parseStockSet(*inStock)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /inventory/oms/v2/tms/details-pwa/", cromaHandler(logger, stock))
	mux.HandleFunc("GET /in/api/product/activityInfo/all/{code}", activityHandler(logger, stock))
	mux.HandleFunc("GET /listing-svc/v2/products", listingHandler(logger, fixture))

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("starting mock retailer server", "addr", addr)

	srv := &http.Server{
		Addr:         addr,
		Handler:      requestLogger(logger, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func loadFixture(path string) (*listingFixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // fixture path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var f listingFixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &f, nil
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "query", r.URL.RawQuery)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort write to HTTP response in mock server
	json.NewEncoder(w).Encode(v)
}

func cromaHandler(logger *slog.Logger, stock stockSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
			return
		}
		line := gjson.GetBytes(body, "promise.promiseLines.promiseLine.0")
		item := line.Get("itemID").String()
		zip := line.Get("shipToAddress.zipCode").String()

		assignments := []map[string]string{}
		if stock[item] {
			assignments = append(assignments, map[string]string{
				"quantity":     "3",
				"deliveryDate": time.Now().AddDate(0, 0, 2).Format(time.DateOnly),
				"fromTime":     "09:00",
				"toTime":       "21:00",
			})
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"promise": map[string]any{
				"suggestedOption": map[string]any{
					"option": map[string]any{
						"promiseLines": map[string]any{
							"promiseLine": []map[string]any{{
								"fulfillmentType": "HDEL",
								"itemID":          item,
								"assignments":     map[string]any{"assignment": assignments},
							}},
						},
					},
				},
			},
		})
		logger.Info("croma promise", "item", item, "zip", zip, "in_stock", stock[item])
	}
}

func activityHandler(logger *slog.Logger, stock stockSet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.PathValue("code")

		reservable := 0
		if stock[code] {
			reservable = -1
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": "1",
			"data": map[string]any{
				"activitySkuList": []map[string]any{{
					"activityInfo": map[string]any{"reservableId": reservable},
				}},
			},
		})
		logger.Info("activity info", "code", code, "in_stock", stock[code])
	}
}

func listingHandler(logger *slog.Logger, fixture *listingFixture) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") == "" {
			logger.Warn("listing request missing cookie")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "login required"})
			return
		}

		page := 1
		if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
			page = v
		}

		start := (page - 1) * listingPageSize
		products := []json.RawMessage{}
		if start < len(fixture.Products) {
			end := min(start+listingPageSize, len(fixture.Products))
			products = fixture.Products[start:end]
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"tabs": []map[string]any{{
				"product_info": map[string]any{"products": products},
			}},
		})
		logger.Info("listing", "slug", r.URL.Query().Get("slug"), "page", page, "returned", len(products))
	}
}
