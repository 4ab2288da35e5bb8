package grain

import (
	"sort"

	"github.com/felipebogaertsm/rocket-solver/internal/srm"
)

// TablePoint is one row of a tabulated regression profile.
type TablePoint struct {
	Web    float64 `yaml:"web"`    // web distance [m]
	Area   float64 `yaml:"area"`   // burn area [m²]
	Volume float64 `yaml:"volume"` // propellant volume remaining [m³]
}

// Table is a custom grain profile: burn area and volume tabulated against
// web distance, linearly interpolated. Profiles typically come from CAD or
// grain-mapping tools for geometries the analytic variants cannot express.
type Table struct {
	Profile []TablePoint `yaml:"profile"`
}

func (t *Table) Validate() error {
	if len(t.Profile) < 2 {
		return srm.Configf("table.profile", "need at least 2 points, got %d", len(t.Profile))
	}
	for i := 1; i < len(t.Profile); i++ {
		if t.Profile[i].Web <= t.Profile[i-1].Web {
			return srm.Configf("table.profile", "web values must be strictly increasing")
		}
	}
	if t.Profile[0].Web != 0 {
		return srm.Configf("table.profile", "first point must be at web 0, got %g", t.Profile[0].Web)
	}
	last := t.Profile[len(t.Profile)-1]
	if last.Area != 0 || last.Volume != 0 {
		return srm.Configf("table.profile", "last point must reach zero area and volume")
	}
	for i, p := range t.Profile {
		if p.Area < 0 || p.Volume < 0 {
			return srm.Configf("table.profile", "point %d has negative area or volume", i)
		}
	}
	return nil
}

func (t *Table) WebThickness() float64 {
	return t.Profile[len(t.Profile)-1].Web
}

func (t *Table) BurnArea(web float64) float64 {
	return t.interp(web, func(p TablePoint) float64 { return p.Area })
}

func (t *Table) Volume(web float64) float64 {
	return t.interp(web, func(p TablePoint) float64 { return p.Volume })
}

func (t *Table) interp(web float64, value func(TablePoint) float64) float64 {
	if web <= 0 {
		return value(t.Profile[0])
	}
	if web >= t.WebThickness() {
		return 0
	}
	i := sort.Search(len(t.Profile), func(i int) bool {
		return t.Profile[i].Web > web
	})
	lo, hi := t.Profile[i-1], t.Profile[i]
	f := (web - lo.Web) / (hi.Web - lo.Web)
	return value(lo) + f*(value(hi)-value(lo))
}
