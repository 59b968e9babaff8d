package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/Manzana-Ecommerce/manzana-storefront-backend/app"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/catalog"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/config"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/models"
	"github.com/Manzana-Ecommerce/manzana-storefront-backend/services"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// storefront lives as long as the Lambda execution environment, so warm
// invocations share its snapshot like requests to one server worker do.
var storefront *services.StorefrontService

func init() {
	_ = godotenv.Load()
}

func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Printf("Received request: %s %s", request.HTTPMethod, request.Path)

	if request.HTTPMethod != "" && request.HTTPMethod != http.MethodGet {
		return respond(http.StatusMethodNotAllowed, catalog.CacheControlNoStore, errorBody("Method not allowed")), nil
	}

	if id, ok := request.PathParameters["id"]; ok {
		return productByID(ctx, id), nil
	}
	if rest, ok := strings.CutPrefix(strings.TrimSuffix(request.Path, "/"), "/store/products/"); ok && rest != "" {
		return productByID(ctx, rest), nil
	}
	return catalogPage(ctx, request), nil
}

func catalogPage(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	q := url.Values{}
	for k, vs := range request.MultiValueQueryStringParameters {
		q[k] = vs
	}
	for k, v := range request.QueryStringParameters {
		if !q.Has(k) {
			q.Set(k, v)
		}
	}
	opts, force := catalog.ParseQuery(q)
	req := services.CatalogRequest{Options: opts, Force: force}

	page, err := storefront.GetCatalogPage(ctx, req)
	if err != nil {
		stale, ok := storefront.StaleCatalogPage(req)
		if !ok {
			log.Printf("Error loading catalog: %v", err)
			return respond(http.StatusServiceUnavailable, catalog.CacheControlNoStore, errorBody("could not load products"))
		}
		log.Printf("Serving stale catalog: %v", err)
		return respond(http.StatusOK, catalog.CacheControlNoStore, models.ApiResponse{
			Message: "Products retrieved (stale)",
			Data:    stale,
			Stale:   true,
			Meta:    models.NewPagination(opts.Limit, opts.Offset, len(stale.Items), stale.Total),
		})
	}

	return respond(http.StatusOK, catalog.CacheControl(force), models.ApiResponse{
		Message: "Products retrieved successfully",
		Data:    page,
		Meta:    models.NewPagination(opts.Limit, opts.Offset, len(page.Items), page.Total),
	})
}

func productByID(ctx context.Context, raw string) events.APIGatewayProxyResponse {
	id, err := uuid.Parse(raw)
	if err != nil {
		return respond(http.StatusBadRequest, catalog.CacheControlNoStore, errorBody("Invalid product ID"))
	}

	product, err := storefront.GetProduct(ctx, id)
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		return respond(http.StatusNotFound, catalog.CacheControlNoStore, errorBody("Product not found"))
	case err != nil:
		log.Printf("Error loading product %s: %v", id, err)
		return respond(http.StatusServiceUnavailable, catalog.CacheControlNoStore, errorBody("could not load products"))
	}
	return respond(http.StatusOK, catalog.CacheControl(false), models.ApiResponse{
		Message: "Product retrieved successfully",
		Data:    product,
	})
}

func errorBody(message string) models.ApiResponse {
	return models.ApiResponse{Message: message, Error: true}
}

func respond(status int, cacheControl string, body models.ApiResponse) events.APIGatewayProxyResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Printf("Error marshaling response: %v", err)
		status = http.StatusInternalServerError
		payload = []byte(`{"message":"Failed to format response","error":true}`)
		cacheControl = catalog.CacheControlNoStore
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type":                 "application/json",
			"Cache-Control":                cacheControl,
			"Access-Control-Allow-Origin":  "*",
			"Access-Control-Allow-Methods": "GET",
			"Access-Control-Allow-Headers": "Content-Type",
		},
		Body: string(payload),
	}
}

func main() {
	config.InitDB()
	defer config.CloseDB()
	config.ConnectRedis()
	defer config.CloseRedis()

	a := app.New(app.Deps{
		Gorm:          config.Gorm,
		Pool:          config.DB,
		Redis:         config.RedisClient,
		ProductsTTL:   config.ProductsCacheTTL(),
		SiteConfigTTL: config.SiteConfigCacheTTL(),
	})
	storefront = a.Storefront

	lambda.Start(handler)
}
