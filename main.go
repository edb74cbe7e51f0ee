package main

import (
	"condo-management-server/routes"
	"condo-management-server/storage"
	"condo-management-server/utils"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeS3()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the management dashboard
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	api := app.Party("/api", accessTokenVerifierMiddleware, utils.ClaimsMiddleware)

	condos := api.Party("/condos")
	{
		condos.Get("/", routes.ListCondos)
		condos.Get("/{id:uint}", routes.GetCondo)
		condos.Post("/", utils.PMOnlyMiddleware, routes.CreateCondo)
		condos.Patch("/{id:uint}", utils.PMOnlyMiddleware, routes.UpdateCondo)
		condos.Delete("/{id:uint}", utils.PMOnlyMiddleware, routes.DeleteCondo)
	}

	units := api.Party("/units")
	{
		units.Get("/", routes.ListUnits)
		units.Get("/{id:uint}", routes.GetUnit)
		units.Get("/{id:uint}/parking", routes.UnitParkingLookup)
		units.Post("/", utils.PMOnlyMiddleware, routes.CreateUnit)
		units.Patch("/{id:uint}", utils.PMOnlyMiddleware, routes.UpdateUnit)
		units.Delete("/{id:uint}", utils.PMOnlyMiddleware, routes.DeleteUnit)
	}

	spots := api.Party("/parking-spots")
	{
		spots.Get("/", routes.ListParkingSpots)
		spots.Get("/{id:uint}", routes.GetParkingSpot)
		spots.Post("/", utils.PMOnlyMiddleware, routes.CreateParkingSpot)
		spots.Patch("/{id:uint}", utils.PMOnlyMiddleware, routes.UpdateParkingSpot)
		spots.Delete("/{id:uint}", utils.PMOnlyMiddleware, routes.DeleteParkingSpot)
	}
	api.Get("/spots/{id:uint}/unit", routes.SpotUnitLookup)

	assignments := api.Party("/unit-parking-assignments")
	{
		assignments.Get("/", routes.ListAssignments)
		assignments.Get("/{id:uint}", routes.GetAssignment)
		assignments.Post("/", utils.PMOnlyMiddleware, routes.CreateAssignment)
		assignments.Patch("/{id:uint}", utils.PMOnlyMiddleware, routes.UpdateAssignment)
		assignments.Delete("/{id:uint}", utils.PMOnlyMiddleware, routes.DeleteAssignment)
	}

	assignmentsCSV := api.Party("/assignments", utils.PMOnlyMiddleware)
	{
		assignmentsCSV.Get("/export.csv", routes.ExportAssignmentsCSV)
		assignmentsCSV.Post("/import.csv", routes.ImportAssignmentsCSV)
	}

	bookings := api.Party("/bookings")
	{
		bookings.Get("/", routes.ListBookings)
		bookings.Get("/{id:uint}", routes.GetBooking)
		bookings.Post("/", routes.CreateBooking)
		bookings.Patch("/{id:uint}", routes.UpdateBooking)
		bookings.Post("/{id:uint}/approve", utils.ReviewerOnlyMiddleware, routes.ApproveBooking)
		bookings.Post("/{id:uint}/reject", utils.ReviewerOnlyMiddleware, routes.RejectBooking)
		bookings.Post("/{id:uint}/cancel", routes.CancelBooking)
		bookings.Delete("/{id:uint}", utils.PMOnlyMiddleware, routes.DeleteBooking)
	}

	reports := api.Party("/reports")
	{
		reports.Get("/unit/{id:uint}/bookings", routes.UnitBookingsReport)
		reports.Get("/available-spots", routes.AvailableSpotsReport)
		reports.Get("/upcoming-checkpoints", routes.UpcomingCheckpointsReport)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("Starting condo management server on port " + port)
	app.Listen(":" + port)
}
