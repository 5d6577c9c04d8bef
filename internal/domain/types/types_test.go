package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/liftmotor/internal/domain/motor"
	types "github.com/okian/liftmotor/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResponse(t *testing.T) {
	Convey("Given a response covering both motor types", t, func() {
		resp := types.Response{
			QueryID: "q-1",
			Results: []types.Result{
				{MotorType: motor.TypeGearless, Status: types.StatusOK, Motors: []motor.Record{
					{CapacityKG: 630, SpeedMPS: 1}, {CapacityKG: 800, SpeedMPS: 1},
				}},
				{MotorType: motor.TypeGeared, Status: types.StatusUnavailable, Motors: []motor.Record{}, Error: "missing"},
			},
		}

		Convey("When counting matches", func() {
			Convey("Then motors from every result are summed", func() {
				So(resp.Matches(), ShouldEqual, 2)
			})
		})

		Convey("When looking up a result by type", func() {
			geared, ok := resp.ResultFor(motor.TypeGeared)
			_, missing := types.Response{}.ResultFor(motor.TypeGeared)

			Convey("Then the matching result is returned", func() {
				So(ok, ShouldBeTrue)
				So(geared.Status, ShouldEqual, types.StatusUnavailable)
				So(missing, ShouldBeFalse)
			})
		})

		Convey("When encoding an empty result", func() {
			b, err := json.Marshal(types.Result{MotorType: motor.TypeGeared, Status: types.StatusNoMatches, Motors: []motor.Record{}})

			Convey("Then motors is an empty array rather than null", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"motor_type":"Geared","status":"no_matches","motors":[]}`)
			})
		})
	})
}
