package helpers

import (
	"log"
	"net/http"
	"os"

	"github.com/openzipkin/zipkin-go"
	zipkinhttp "github.com/openzipkin/zipkin-go/middleware/http"
	httpreporter "github.com/openzipkin/zipkin-go/reporter/http"
)

// InitTracer builds the zipkin server middleware wrapping the whole mux
func InitTracer() func(http.Handler) http.Handler {
	// set up a span reporter
	reporter := httpreporter.NewReporter("http://" + os.Getenv("ZIPKIN_ADDRESS") + "/api/v2/spans")

	// create our local service endpoint
	endpoint, err := zipkin.NewEndpoint("flockRest", "localhost:"+os.Getenv("PORT"))
	if err != nil {
		log.Printf("unable to create local endpoint: %+v\n", err)
	}

	// initialize our tracer
	tracer, err := zipkin.NewTracer(reporter, zipkin.WithLocalEndpoint(endpoint))
	if err != nil {
		log.Printf("unable to create tracer: %+v\n", err)
	}

	return zipkinhttp.NewServerMiddleware(
		tracer, zipkinhttp.TagResponseSize(true),
	)
}
