package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	geojson "github.com/paulmach/orb/geojson"
	"github.com/terrasight/terrasight/internal/region"
	"github.com/terrasight/terrasight/internal/session"
)

// DefineROI walks the user through selecting a region of interest and
// resolves the administrative region it falls in.
func DefineROI() {
	choice, err := ReadChoice("How do you want to define the region of interest?", []string{
		"Upload a KML boundary file",
		"Enter a point with a buffer radius",
		"Paste a GeoJSON geometry",
	})
	if err != nil {
		PrintError(err.Error())
		return
	}

	var roi *region.ROI
	switch choice {
	case 0:
		roi = readKMLBoundary()
	case 1:
		roi = readPointBuffer()
	case 2:
		roi = readGeoJSONGeometry()
	}
	if roi == nil {
		return
	}

	activeSession.SetROI(roi)

	detected := region.DetectAdminRegion(context.Background(), computeClient, roi)
	activeSession.DetectedRegion = detected
	if detected == session.UnknownRegion {
		PrintWarning("Could not resolve the administrative region. Zone defaults will fall back to General.")
	} else {
		PrintSuccess(fmt.Sprintf("Region of interest set. Detected administrative region: %s", detected))
	}

	bound := roi.Bound()
	fmt.Printf("%sBounds: %.4f,%.4f to %.4f,%.4f%s\n", ColorBlue,
		bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat(), ColorReset)
}

func readKMLBoundary() *region.ROI {
	PrintWarning("The KML file should contain at least one Placemark with a polygon boundary.")
	path := ReadString("Enter the path to the KML file: ")

	data, err := os.ReadFile(path)
	if err != nil {
		PrintError(fmt.Sprintf("Error reading KML file: %s", err.Error()))
		return nil
	}

	roi := region.ParseKML(data)
	if roi == nil {
		PrintError("No valid boundary found in the KML file. It needs at least 3 distinct coordinate pairs.")
		return nil
	}
	return roi
}

func readPointBuffer() *region.ROI {
	lat, err := ReadFloat("Enter latitude: ", 0, -90, 90)
	if err != nil {
		PrintError(err.Error())
		return nil
	}
	lon, err := ReadFloat("Enter longitude: ", 0, -180, 180)
	if err != nil {
		PrintError(err.Error())
		return nil
	}
	radius, err := ReadFloat("Enter buffer radius in meters (default 1000): ", 1000, 10, 100_000)
	if err != nil {
		PrintError(err.Error())
		return nil
	}

	return region.PointBuffer(lat, lon, radius)
}

func readGeoJSONGeometry() *region.ROI {
	input := ReadString("Paste a GeoJSON geometry (Polygon or Point): ")

	var geometry geojson.Geometry
	if err := json.Unmarshal([]byte(input), &geometry); err != nil {
		PrintError(fmt.Sprintf("Error decoding GeoJSON: %s", err.Error()))
		return nil
	}

	roi, err := region.FromDrawnGeometry(&geometry)
	if err != nil {
		PrintError(err.Error())
		return nil
	}
	return roi
}

// ResetSession clears the region of interest and all derived state.
func ResetSession() {
	activeSession.Reset()
	PrintSuccess("Session cleared. Define a new region of interest to continue.")
}

// ShowSession prints the current session state.
func ShowSession() {
	if !activeSession.HasROI() {
		PrintWarning("No region of interest defined yet.")
		return
	}

	bound := activeSession.ROI.Bound()
	centroid := activeSession.ROI.Centroid()
	fmt.Printf("%s\nCurrent session:%s\n", ColorGreen, ColorReset)
	fmt.Printf("%s- Centroid: %.4f, %.4f%s\n", ColorGreen, centroid.Lat(), centroid.Lon(), ColorReset)
	fmt.Printf("%s- Bounds: %.4f,%.4f to %.4f,%.4f%s\n", ColorGreen,
		bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat(), ColorReset)
	fmt.Printf("%s- Administrative region: %s%s\n", ColorGreen, activeSession.DetectedRegion, ColorReset)
	if activeSession.Executed {
		fmt.Printf("%s- Last analysis: %s%s\n", ColorGreen, activeSession.ActiveModule, ColorReset)
	}
}
