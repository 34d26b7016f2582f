package main

import (
	"fmt"
	"os"
	"path/filepath"

	"geotab-reformatter/internal/testkit"
)

// Sample exceptions: two devices, a driverless event, every recognized category,
// one unrecognized category and one speeding row with malformed extra info.
var exceptions = []testkit.Exception{
	{Device: "Truck 101", FirstName: "Alice", LastName: "Nguyen", Rule: "Speeding", Details: "Heavy Vehicle Speeding",
		ExtraInfo: "Max Speed: 112 km/h (Max road speed: 100 km/h)", Location: "Hume Hwy, Goulburn", Start: 45352.3125, Duration: 95, Distance: 2.91},
	{Device: "Truck 101", FirstName: "Alice", LastName: "Nguyen", Rule: "Harsh Braking", Details: "Heavy Vehicle Harsh Braking",
		ExtraInfo: "Acceleration forward or braking: 0.48 g", Location: "Sydney Rd, Campbellfield", Start: 45352.40625, Duration: 3, Distance: 0.02},
	{Device: "Truck 101", FirstName: "Ben", LastName: "Okafor", Rule: "Harsh Cornering", Details: "Heavy Vehicle Harsh Turning",
		ExtraInfo: "Acceleration side to side: 0.39 g", Location: "Princes Hwy, Dandenong", Start: 45353.6, Duration: 4, Distance: 0.03},
	{Device: "Truck 101", FirstName: "Ben", LastName: "Okafor", Rule: "Harsh Acceleration", Details: "Heavy Vehicle Harsh Acceleration",
		ExtraInfo: "Acceleration forward or braking: 0.35 g", Location: "Western Ring Rd, Ardeer", Start: 45353.65, Duration: 5, Distance: 0.04},
	{Device: "Van 7", FirstName: "", Rule: "Speeding", Details: "Light Vehicle Speeding",
		ExtraInfo: "Max Speed: 74 km/h (Max road speed: 60 km/h)", Location: "Chapel St, Prahran", Start: 45354.25, Duration: 40, Distance: 0.7},
	{Device: "Van 7", FirstName: "Chloe", LastName: "Martin", Rule: "Harsh Braking", Details: "Light Vehicle Harsh Braking",
		ExtraInfo: "Acceleration forward or braking: 0.52 g", Location: "Punt Rd, Richmond", Start: 45354.5, Duration: 2, Distance: 0.01},
	{Device: "Van 7", FirstName: "Chloe", LastName: "Martin", Rule: "Harsh Cornering", Details: "Light Vehicle Harsh Turning",
		ExtraInfo: "Acceleration side to side: 0.44 g", Location: "Hoddle St, Abbotsford", Start: 45354.55, Duration: 3, Distance: 0.02},
	{Device: "Van 7", FirstName: "Chloe", LastName: "Martin", Rule: "Harsh Acceleration", Details: "Light Vehicle Harsh Acceleration",
		ExtraInfo: "Acceleration forward or braking: 0.31 g", Location: "Swan St, Cremorne", Start: 45354.6, Duration: 4, Distance: 0.03},
	{Device: "Van 7", FirstName: "Chloe", LastName: "Martin", Rule: "Idling", Details: "Excessive Idling",
		Location: "Depot, Laverton North", Start: 45354.7, Duration: 1200, Distance: 0},
	{Device: "Van 7", FirstName: "Chloe", LastName: "Martin", Rule: "Speeding", Details: "Light Vehicle Speeding",
		ExtraInfo: "Max Speed: 68 km/h", Location: "Nicholson St, Carlton", Start: 45354.75, Duration: 25, Distance: 0.4},
}

var trips = []testkit.Trip{
	{Device: "Truck 101", FirstName: "Alice", LastName: "Nguyen", Location: "Depot, Laverton North",
		Start: 45352.25, Stop: 45352.5, Driving: 0.2291666, Distance: 212.48, MaxSpeed: 112},
	{Device: "Truck 101", FirstName: "Ben", LastName: "Okafor", Location: "Depot, Laverton North",
		Start: 45353.55, Stop: 45353.7, Driving: 0.125, Distance: 96.1, MaxSpeed: 98},
	{Device: "Van 7", FirstName: "", Location: "Chapel St, Prahran",
		Start: 45354.2, Stop: 45354.3, Driving: 0.0833333, Distance: 18.75, MaxSpeed: 74},
	{Device: "Van 7", FirstName: "Chloe", LastName: "Martin", Location: "Punt Rd, Richmond",
		Start: 45354.45, Stop: 45354.8, Driving: 0.25, Distance: 64.2, MaxSpeed: 68},
}

func main() {
	outputDir := filepath.Join("storage", "samples")
	if len(os.Args) > 1 {
		outputDir = os.Args[1]
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Printf("Error creating %s: %v\n", outputDir, err)
		os.Exit(1)
	}

	exceptionsData, err := testkit.ExceptionsWorkbook(exceptions...)
	if err != nil {
		fmt.Printf("Error building exceptions workbook: %v\n", err)
		os.Exit(1)
	}
	exceptionsPath := filepath.Join(outputDir, "sample_exceptions.xlsx")
	if err := os.WriteFile(exceptionsPath, exceptionsData, 0o644); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Exceptions file created: %s\n", exceptionsPath)
	fmt.Printf("  Total rows: %d\n", len(exceptions))

	tripsData, err := testkit.TripsWorkbook(trips...)
	if err != nil {
		fmt.Printf("Error building trips workbook: %v\n", err)
		os.Exit(1)
	}
	tripsPath := filepath.Join(outputDir, "sample_trips.xlsx")
	if err := os.WriteFile(tripsPath, tripsData, 0o644); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Trips file created: %s\n", tripsPath)
	fmt.Printf("  Total rows: %d\n", len(trips))
}
