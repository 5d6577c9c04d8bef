package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/liftmotor/internal/adapters/catalog"
	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

const gearlessCSV = `Model,Capacity_KG,Speed_mps,Roping,Price_EUR
GL-400,400,1.0,2:1,2100
GL-630,630,1.0,1:1,2600

GL-800,800,0.63,1:1,2900
`

const gearedLegacyCSV = `Model,Capacity_KG,Speed_mps,Travel_Upto_m,Roping
GR-500,500,1.0,,1:1
GR-680,680,1.0,24,1:1
`

func readCSV(t motor.Type, body string) (*motor.Catalog, error) {
	return catalog.Read(context.Background(), strings.NewReader(body), catalog.FormatCSV, t)
}

func TestReadCSV(t *testing.T) {
	convey.Convey("Given a gearless CSV without a travel column", t, func() {
		c, err := readCSV(motor.TypeGearless, gearlessCSV)

		convey.Convey("Then it loads in order and skips blank lines", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.Len(), convey.ShouldEqual, 3)
			convey.So(c.HasTravel(), convey.ShouldBeFalse)

			rows := c.Records()
			convey.So(rows[0].Model, convey.ShouldEqual, "GL-400")
			convey.So(rows[0].CapacityKG, convey.ShouldEqual, 400)
			convey.So(rows[0].Roping, convey.ShouldEqual, motor.Roping2to1)
			convey.So(rows[0].Extra, convey.ShouldResemble, map[string]string{"Price_EUR": "2100"})
			convey.So(rows[2].SpeedMPS, convey.ShouldEqual, 0.63)
		})
	})

	convey.Convey("Given a geared CSV with the legacy travel header", t, func() {
		c, err := readCSV(motor.TypeGeared, gearedLegacyCSV)

		convey.Convey("Then the column migrates to Max_Travel_m", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.HasTravel(), convey.ShouldBeTrue)

			rows := c.Records()
			convey.So(rows[0].MaxTravelM, convey.ShouldBeNil)
			convey.So(*rows[1].MaxTravelM, convey.ShouldEqual, 24)
			convey.So(rows[1].Extra, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given headers with odd case and padding", t, func() {
		c, err := readCSV(motor.TypeGeared, "\ufeff capacity_kg , SPEED_MPS,max_travel_M\n630,1,30\n")

		convey.Convey("Then they match the canonical schema", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.HasTravel(), convey.ShouldBeTrue)
			convey.So(c.Records()[0].CapacityKG, convey.ShouldEqual, 630)
		})
	})

	convey.Convey("Given a header-only CSV", t, func() {
		c, err := readCSV(motor.TypeGeared, "Capacity_KG,Speed_mps\n")

		convey.Convey("Then the catalog is empty but available", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.Len(), convey.ShouldEqual, 0)
		})
	})
}

func TestReadCSVErrors(t *testing.T) {
	convey.Convey("Given a CSV missing the speed column", t, func() {
		_, err := readCSV(motor.TypeGearless, "Capacity_KG,Roping\n400,2:1\n")

		convey.Convey("Then a schema error names the column", func() {
			var schemaErr *catalog.SchemaError
			convey.So(errors.As(err, &schemaErr), convey.ShouldBeTrue)
			convey.So(schemaErr.Column, convey.ShouldEqual, catalog.ColSpeed)
			convey.So(schemaErr.Catalog, convey.ShouldEqual, motor.TypeGearless)
			convey.So(errors.Is(err, catalog.ErrSchema), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given an empty file", t, func() {
		_, err := readCSV(motor.TypeGearless, "")

		convey.Convey("Then it is a schema error", func() {
			convey.So(errors.Is(err, catalog.ErrSchema), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given rows with bad cells", t, func() {
		cases := []struct {
			name, body, column string
			line               int
		}{
			{"non-numeric capacity", "Capacity_KG,Speed_mps\nheavy,1\n", catalog.ColCapacity, 2},
			{"zero speed", "Capacity_KG,Speed_mps\n400,1\n400,0\n", catalog.ColSpeed, 3},
			{"blank capacity", "Capacity_KG,Speed_mps\n,1\n", catalog.ColCapacity, 2},
			{"negative travel", "Capacity_KG,Speed_mps,Max_Travel_m\n400,1,-3\n", catalog.ColTravel, 2},
			{"infinite capacity", "Capacity_KG,Speed_mps,Max_Travel_m\nInf,1.0,20\n", catalog.ColCapacity, 2},
			{"overflowing capacity", "Capacity_KG,Speed_mps\n1e999,1.0\n", catalog.ColCapacity, 2},
			{"NaN speed", "Capacity_KG,Speed_mps\n400,NaN\n", catalog.ColSpeed, 2},
			{"NaN travel", "Capacity_KG,Speed_mps,Max_Travel_m\n400,1.0,NaN\n", catalog.ColTravel, 2},
			{"infinite travel", "Capacity_KG,Speed_mps,Max_Travel_m\n400,1.0,+Inf\n", catalog.ColTravel, 2},
			{"bad cell after blank lines", "Capacity_KG,Speed_mps\n400,1\n\n\n500,fast\n", catalog.ColSpeed, 5},
			{"bad cell after a multi-line quoted cell", "Model,Capacity_KG,Speed_mps\n\"A\nB\",400,1\nC,0,1\n", catalog.ColCapacity, 4},
		}
		for _, tc := range cases {
			convey.Convey("When the file has "+tc.name, func() {
				_, err := readCSV(motor.TypeGeared, tc.body)

				convey.Convey("Then a row error points at the cell", func() {
					var rowErr *catalog.RowError
					convey.So(errors.As(err, &rowErr), convey.ShouldBeTrue)
					convey.So(rowErr.Column, convey.ShouldEqual, tc.column)
					convey.So(rowErr.Line, convey.ShouldEqual, tc.line)
					convey.So(errors.Is(err, catalog.ErrInvalidRow), convey.ShouldBeTrue)
				})
			})
		}
	})

	convey.Convey("Given malformed CSV quoting", t, func() {
		_, err := readCSV(motor.TypeGeared, "Capacity_KG,Speed_mps\n\"400,1\n")

		convey.Convey("Then it is a parse error", func() {
			convey.So(errors.Is(err, catalog.ErrParse), convey.ShouldBeTrue)
		})
	})
}

func TestReadXLSX(t *testing.T) {
	convey.Convey("Given an Excel catalog", t, func() {
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		convey.So(f.SetSheetRow(sheet, "A1", &[]interface{}{"Model", "Capacity_KG", "Speed_mps", "Travel_Upto_m", "Roping"}), convey.ShouldBeNil)
		convey.So(f.SetSheetRow(sheet, "A2", &[]interface{}{"GR-400", 400, 1.0, 20, "2:1"}), convey.ShouldBeNil)
		convey.So(f.SetSheetRow(sheet, "A3", &[]interface{}{"GR-630", 630, 0.5, 30, "1:1"}), convey.ShouldBeNil)
		buf, err := f.WriteToBuffer()
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When reading it", func() {
			c, err := catalog.Read(context.Background(), buf, catalog.FormatXLSX, motor.TypeGeared)

			convey.Convey("Then the first sheet is migrated like a CSV", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(c.Len(), convey.ShouldEqual, 2)
				convey.So(c.HasTravel(), convey.ShouldBeTrue)
				rows := c.Records()
				convey.So(rows[0].Model, convey.ShouldEqual, "GR-400")
				convey.So(*rows[0].MaxTravelM, convey.ShouldEqual, 20)
				convey.So(rows[1].SpeedMPS, convey.ShouldEqual, 0.5)
			})
		})
	})

	convey.Convey("Given bytes that are not a workbook", t, func() {
		_, err := catalog.Read(context.Background(), strings.NewReader("not a zip"), catalog.FormatXLSX, motor.TypeGeared)

		convey.Convey("Then it is a parse error", func() {
			convey.So(errors.Is(err, catalog.ErrParse), convey.ShouldBeTrue)
		})
	})
}

func TestLoadFile(t *testing.T) {
	convey.Convey("Given catalog files on disk", t, func() {
		dir := t.TempDir()
		csvPath := filepath.Join(dir, "gearless_motors_final.csv")
		convey.So(os.WriteFile(csvPath, []byte(gearlessCSV), 0o600), convey.ShouldBeNil)

		convey.Convey("When loading a CSV path", func() {
			c, err := catalog.LoadFile(context.Background(), csvPath, motor.TypeGearless)

			convey.Convey("Then the format follows the extension", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(c.Len(), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the extension is unknown", func() {
			_, err := catalog.LoadFile(context.Background(), filepath.Join(dir, "motors.json"), motor.TypeGearless)

			convey.Convey("Then the format is rejected", func() {
				convey.So(errors.Is(err, catalog.ErrUnsupportedFormat), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := catalog.LoadFile(context.Background(), filepath.Join(dir, "missing.csv"), motor.TypeGearless)

			convey.Convey("Then the open error is returned", func() {
				convey.So(errors.Is(err, os.ErrNotExist), convey.ShouldBeTrue)
			})
		})
	})
}

func TestBundledCatalogs(t *testing.T) {
	convey.Convey("Given the catalogs shipped under data/", t, func() {
		ctx := context.Background()

		convey.Convey("Then the gearless sheet loads with its travel column", func() {
			c, err := catalog.LoadFile(ctx, filepath.Join("..", "..", "..", "data", "gearless.csv"), motor.TypeGearless)
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.HasTravel(), convey.ShouldBeTrue)
			convey.So(c.Len(), convey.ShouldEqual, 9)
		})

		convey.Convey("Then the geared sheet migrates its legacy travel header", func() {
			c, err := catalog.LoadFile(ctx, filepath.Join("..", "..", "..", "data", "geared.csv"), motor.TypeGeared)
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.HasTravel(), convey.ShouldBeTrue)
			convey.So(c.Len(), convey.ShouldEqual, 7)
		})
	})
}
