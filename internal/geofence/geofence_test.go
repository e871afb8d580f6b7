package geofence_test

import (
	"encoding/json"
	"testing"

	"github.com/frahmantamala/geofence-security/internal/geofence"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGeofence(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Geofence Suite")
}

var _ = Describe("CenterPoint", func() {
	It("averages the square's vertices including the closing one", func() {
		raw := json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}`)
		Expect(geofence.CenterPoint(raw)).To(Equal(&[2]float64{0.8, 0.8}))
	})

	It("matches the open-ring square at its true center", func() {
		raw := json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2]]]}`)
		Expect(geofence.CenterPoint(raw)).To(Equal(&[2]float64{1, 1}))
	})

	It("reads polygons wrapped in a Feature", func() {
		raw := json.RawMessage(`{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[10,20],[14,24]]]}}`)
		Expect(geofence.CenterPoint(raw)).To(Equal(&[2]float64{12, 22}))
	})

	It("returns lon then lat", func() {
		raw := json.RawMessage(`{"type":"Polygon","coordinates":[[[100.5,-6.2]]]}`)
		center := geofence.CenterPoint(raw)
		Expect(center).NotTo(BeNil())
		Expect(center[0]).To(Equal(100.5))
		Expect(center[1]).To(Equal(-6.2))
	})

	DescribeTable("yields no center without failing",
		func(raw string) {
			Expect(geofence.CenterPoint(json.RawMessage(raw))).To(BeNil())
		},
		Entry("empty object", `{}`),
		Entry("missing coordinates", `{"type":"Polygon"}`),
		Entry("empty coordinates", `{"type":"Polygon","coordinates":[]}`),
		Entry("empty ring", `{"type":"Polygon","coordinates":[[]]}`),
		Entry("point geometry", `{"type":"Point","coordinates":[1,2]}`),
		Entry("feature without polygon", `{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}}`),
		Entry("malformed json", `{"type":`),
		Entry("non numeric vertex", `{"type":"Polygon","coordinates":[[["a","b"]]]}`),
	)
})
