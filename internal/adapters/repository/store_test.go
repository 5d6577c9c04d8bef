package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/liftmotor/internal/domain/motor"
	"github.com/okian/liftmotor/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func mustCatalog(t motor.Type, hasTravel bool, recs ...motor.Record) *motor.Catalog {
	c, err := motor.NewCatalog(t, hasTravel, recs)
	if err != nil {
		panic(err)
	}
	return c
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a store with one loaded and one failed catalog", t, func() {
		ctx := context.Background()
		gearless := mustCatalog(motor.TypeGearless, true,
			motor.Record{Model: "GL-1", CapacityKG: 630, SpeedMPS: 1.0, MaxTravelM: motor.Float(40), Roping: motor.Roping1to1},
			motor.Record{Model: "GL-2", CapacityKG: 400, SpeedMPS: 1.0, MaxTravelM: motor.Float(40), Roping: motor.Roping2to1},
		)
		cause := errors.New("file not found")
		s := NewMemoryStore(ctx,
			WithCatalog("gearless.csv", gearless),
			WithUnavailable(motor.TypeGeared, "geared.csv", cause),
		)

		Convey("When asking for the loaded catalog", func() {
			c, err := s.Catalog(ctx, motor.TypeGearless)

			Convey("Then it is returned as registered", func() {
				So(err, ShouldBeNil)
				So(c, ShouldEqual, gearless)
			})
		})

		Convey("When asking for the failed catalog", func() {
			c, err := s.Catalog(ctx, motor.TypeGeared)

			Convey("Then the error carries both the kind and the cause", func() {
				So(c, ShouldBeNil)
				So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
			})
		})

		Convey("When asking for a type never configured", func() {
			_, err := NewMemoryStore(ctx).Catalog(ctx, motor.TypeGeared)

			Convey("Then it is not found", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When listing status", func() {
			st := s.Status(ctx)

			Convey("Then entries follow registration order", func() {
				So(len(st), ShouldEqual, 2)
				So(st[0], ShouldResemble, Status{
					Type: motor.TypeGearless, Available: true, Source: "gearless.csv", Rows: 2, HasTravel: true,
				})
				So(st[1].Type, ShouldEqual, motor.TypeGeared)
				So(st[1].Available, ShouldBeFalse)
				So(st[1].Error, ShouldEqual, "file not found")
			})
		})

		Convey("When counting rows", func() {
			Convey("Then only available catalogs count", func() {
				So(s.Count(ctx), ShouldEqual, 2)
			})
		})

		Convey("When a later option replaces a type", func() {
			s2 := NewMemoryStore(ctx,
				WithUnavailable(motor.TypeGearless, "old.csv", nil),
				WithCatalog("new.csv", gearless),
				WithCatalog("ignored.csv", nil),
			)

			Convey("Then the last registration wins and nil catalogs are ignored", func() {
				st := s2.Status(ctx)
				So(len(st), ShouldEqual, 1)
				So(st[0].Source, ShouldEqual, "new.csv")
				So(st[0].Available, ShouldBeTrue)
			})
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given sources where one fails to load", t, func() {
		ctx := context.Background()
		var seen []string
		load := func(_ context.Context, path string, mt motor.Type) (*motor.Catalog, error) {
			seen = append(seen, path)
			if mt == motor.TypeGeared {
				return nil, errors.New("missing Speed_mps")
			}
			return mustCatalog(mt, false, motor.Record{Model: "A", CapacityKG: 800, SpeedMPS: 1.6}), nil
		}

		s := Load(ctx, logger.Discard(), load,
			Source{Type: motor.TypeGearless, Path: "a.csv"},
			Source{Type: motor.TypeGeared, Path: "b.csv"},
		)

		Convey("Then every source is attempted once", func() {
			So(seen, ShouldResemble, []string{"a.csv", "b.csv"})
		})

		Convey("Then the good catalog is usable", func() {
			c, err := s.Catalog(ctx, motor.TypeGearless)
			So(err, ShouldBeNil)
			So(c.Len(), ShouldEqual, 1)
			So(c.HasTravel(), ShouldBeFalse)
		})

		Convey("Then the failed catalog is unavailable", func() {
			_, err := s.Catalog(ctx, motor.TypeGeared)
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "missing Speed_mps")
		})
	})
}
