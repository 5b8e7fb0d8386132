package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/listing-locator/internal/taxonomy"
	"gopkg.in/yaml.v3"
)

func main() {
	in := flag.String("in", "", "CSV export: region,regionCode,district,districtCode,ward,wardCode,street")
	out := flag.String("out", "taxonomy.yaml", "output file, .json or .yaml")
	strip := flag.Bool("strip-suffixes", false, "drop administrative suffixes such as \" District Council\"")
	flag.Parse()

	if *in == "" {
		log.Fatal("-in is required")
	}
	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("Cannot open input: %v", err)
	}
	defer f.Close()

	src, stats, err := Convert(f, ConvertOptions{StripSuffixes: *strip})
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	// Refuse to write something the services would reject at startup
	tax, err := taxonomy.Build(src)
	if err != nil {
		log.Fatalf("Converted taxonomy is invalid: %v", err)
	}

	var data []byte
	if taxonomy.FormatFromPath(*out) == taxonomy.FormatJSON {
		data, err = json.MarshalIndent(src, "", "  ")
	} else {
		data, err = yaml.Marshal(src)
	}
	if err != nil {
		log.Fatalf("Encoding failed: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Cannot write output: %v", err)
	}

	s := tax.Stats()
	fmt.Printf("%d rows, %d duplicates, %d skipped\n", stats.Rows, stats.Duplicates, stats.Skipped)
	fmt.Printf("wrote %s (version %s): %d regions, %d districts, %d wards\n",
		*out, tax.Version(), s.Regions, s.Districts, s.Wards)
}
