package io

import (
	"fmt"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gocollide/collision"
	"github.com/phil-mansfield/gocollide/estimator"
	"github.com/phil-mansfield/gocollide/math/interpolate"
	"github.com/phil-mansfield/gocollide/particle"
	"github.com/phil-mansfield/gocollide/scatter"
	"github.com/phil-mansfield/gocollide/transport"
	"gonum.org/v1/gonum/spatial/r3"
)

const ExampleConfigFile = `[Run]

#######################
# Required Parameters #
#######################

# Number of source particles to simulate.
Histories = 100000

#######################
# Optional Parameters #
#######################

# Number of worker goroutines. Defaults to the number of CPUs. The results do
# not depend on this.
# Workers = 4

# Base seed for the random number streams. Default is 1.
# Seed = 1

# Binary results file. Default is gocollide.out.
# Output = gocollide.out

# Directory that relative cross section and spectrum files are read from.
# Can also be set with GOCOLLIDE_DATA_DIR.
# DataDir = path/to/data

# Energy below which particles of a type are terminated. One line per type.
# Cutoff = Photon 0.001

# Limit on the number of collisions of a single particle.
# MaxCollisions = 100000

[Source]

# One of [ Neutron | Photon | Electron | Positron ].
Particle = Neutron

# Source energy in MeV. Ignored if Spectrum is set.
Energy = 2.0

# Position of the point source (cm).
Position = 0, 0, 0

# Direction of emission. Isotropic if not set.
Direction = 0, 0, 1

# Two column file: lower bin edges and spectrum heights.
# Spectrum = watt.txt

[Slab]

# Ascending z coordinates of the planes separating the slabs. Plane i is
# surface i+1 and the slab between planes i and i+1 is cell i+1.
Planes = 0, 1, 2

# One material per slab. "void" means no material.
Materials = water, void

[Material "water"]

# Particle type the reactions below apply to.
Particle = Neutron

# Atom density in atoms per barn-cm.
Density = 0.1

# One line per reaction: a reaction type and a two column cross section file
# (energy in MeV, cross section in barns).
Reaction = NuclearElastic elastic.txt
Reaction = NuclearCapture capture.txt

# Interpolation used between cross section points. Default is LinLin.
# Policy = LogLog

# Target mass in neutron masses, needed by elastic and inelastic reactions.
TargetMass = 1

# Needed by NuclearLevelInelastic.
# QValue = -0.5

# Nuclear temperature (MeV) of the evaporation spectrum used by NuclearN2N
# and NuclearFission.
# Temperature = 1.3

# Average number of fission neutrons.
# Nu = 2.43

[Estimator "transmission"]

# One of [ CellCollisionFlux | CellTrackLengthFlux | SurfaceFlux |
# SurfaceCurrent | CellPulseHeight ].
Kind = SurfaceCurrent

# Cells or surfaces scored by the estimator.
Entities = 3

#######################
# Optional Parameters #
#######################

# Identifier used in the output. Defaults to the order the estimators appear
# in the file, starting at 1.
# ID = 1

# Particle types scored. Every type is scored if not set.
# Particles = Neutron

# Constant multiplying every score.
# Multiplier = 1

# Volume or area of each entity. Cell estimators default to the thickness of
# each slab and surface estimators default to 1.
# Norms = 1

# Bin boundaries of the phase space dimensions, in the order they are listed.
# Energy = 1e-11, 0.1, 1, 20
# Cosine = -1, 0, 1
# Time = 0, 1e-9, 1e-8

# Number of individual collision number bins. A last bin collects every
# collision number from CollisionNumbers to CollisionNumberLimit.
# CollisionNumbers = 3
# CollisionNumberLimit = 100000

# Bin by the octant of the direction of flight.
# Octants = true

# Set to extend the outermost bins of Energy, Cosine and Time to infinity.
# Extend = true

# Cosine below which SurfaceFlux treats crossings as grazing.
# CosineCutoff = 0.001`

// voidMaterial is the name which marks an empty slab.
const voidMaterial = "void"

type RunConfig struct {
	// Required
	Histories int

	// Optional
	Workers       int
	Seed          int64
	Output        string
	DataDir       string
	Cutoff        []string
	MaxCollisions int
}

func (con *RunConfig) ValidHistories() bool     { return con.Histories > 0 }
func (con *RunConfig) ValidWorkers() bool       { return con.Workers > 0 }
func (con *RunConfig) ValidOutput() bool        { return con.Output != "" }
func (con *RunConfig) ValidDataDir() bool       { return con.DataDir != "" }
func (con *RunConfig) ValidMaxCollisions() bool { return con.MaxCollisions > 0 }

// Cutoffs parses the Cutoff lines.
func (con *RunConfig) Cutoffs() (map[particle.Type]float64, error) {
	out := map[particle.Type]float64{}
	for _, line := range con.Cutoff {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf(
				"Cutoff '%s' must be a particle type followed by an energy.", line,
			)
		}
		t, err := particle.ParseType(fields[0])
		if err != nil {
			return nil, err
		}
		e, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || e < 0 {
			return nil, fmt.Errorf("Cutoff energy '%s' is not a non-negative number.", fields[1])
		}
		out[t] = e
	}
	return out, nil
}

type SourceConfig struct {
	// Required
	Particle string

	// Optional
	Energy              float64
	Position, Direction string
	Spectrum            string
}

func (con *SourceConfig) ValidParticle() bool {
	_, err := particle.ParseType(con.Particle)
	return err == nil
}
func (con *SourceConfig) ValidEnergy() bool   { return con.Energy > 0 }
func (con *SourceConfig) ValidSpectrum() bool { return con.Spectrum != "" }

type SlabConfig struct {
	// Required
	Planes, Materials string
}

type MaterialConfig struct {
	// Required
	Particle string
	Density  float64
	Reaction []string

	// Optional
	Policy      string
	TargetMass  float64
	QValue      float64
	Temperature float64
	Nu          float64

	Name string
}

// CheckInit validates the material and records its name.
func (con *MaterialConfig) CheckInit(name string) error {
	if _, err := particle.ParseType(con.Particle); err != nil {
		return fmt.Errorf("Material '%s': %s", name, err.Error())
	} else if con.Density <= 0 {
		return fmt.Errorf("Material '%s' needs a positive Density.", name)
	} else if len(con.Reaction) == 0 {
		return fmt.Errorf("Material '%s' has no Reaction lines.", name)
	} else if con.TargetMass < 0 {
		return fmt.Errorf("Material '%s' has a negative TargetMass.", name)
	} else if con.Temperature < 0 {
		return fmt.Errorf("Material '%s' has a negative Temperature.", name)
	} else if con.Nu < 0 {
		return fmt.Errorf("Material '%s' has a negative Nu.", name)
	}
	if con.Policy != "" {
		if _, err := interpolate.ParsePolicy(con.Policy); err != nil {
			return fmt.Errorf("Material '%s': %s", name, err.Error())
		}
	}
	if strings.EqualFold(name, voidMaterial) {
		return fmt.Errorf("'%s' is reserved for empty slabs.", voidMaterial)
	}

	con.Name = name
	return nil
}

type EstimatorConfig struct {
	// Required
	Kind     string
	Entities string

	// Optional
	ID                   int
	Particles            string
	Multiplier           float64
	Norms                string
	Energy, Cosine, Time string
	CollisionNumbers     int
	CollisionNumberLimit int
	Octants              bool
	Extend               bool
	CosineCutoff         float64

	Name string
}

var estimatorKinds = []string{
	"CellCollisionFlux", "CellTrackLengthFlux",
	"SurfaceFlux", "SurfaceCurrent", "CellPulseHeight",
}

func (con *EstimatorConfig) ValidKind() bool {
	for _, k := range estimatorKinds {
		if strings.EqualFold(k, con.Kind) {
			return true
		}
	}
	return false
}

// IsSurface returns true if the estimator scores surfaces rather than
// cells.
func (con *EstimatorConfig) IsSurface() bool {
	return strings.HasPrefix(strings.ToLower(con.Kind), "surface")
}

// CheckInit validates the estimator and records its name.
func (con *EstimatorConfig) CheckInit(name string) error {
	if !con.ValidKind() {
		return fmt.Errorf(
			"Estimator '%s' has unrecognized Kind '%s'. Recognized kinds are %s.",
			name, con.Kind, strings.Join(estimatorKinds, ", "),
		)
	} else if strings.TrimSpace(con.Entities) == "" {
		return fmt.Errorf("Estimator '%s' has no Entities.", name)
	} else if con.ID < 0 {
		return fmt.Errorf("Estimator '%s' has a negative ID.", name)
	} else if con.Multiplier < 0 {
		return fmt.Errorf("Estimator '%s' has a negative Multiplier.", name)
	} else if con.CollisionNumbers < 0 {
		return fmt.Errorf("Estimator '%s' has negative CollisionNumbers.", name)
	}

	if con.CollisionNumberLimit == 0 {
		con.CollisionNumberLimit = transport.DefaultMaxCollisions
	}
	con.Name = name
	return nil
}

// Config is a full run configuration file.
type Config struct {
	Run       RunConfig
	Source    SourceConfig
	Slab      SlabConfig
	Material  map[string]*MaterialConfig
	Estimator map[string]*EstimatorConfig

	// estimator names in the order they appear in the file.
	order []string
}

// DefaultConfig returns a configuration with every optional value set to
// its default.
func DefaultConfig() *Config {
	con := &Config{}
	con.Run.Workers = runtime.NumCPU()
	con.Run.Seed = 1
	con.Run.Output = "gocollide.out"
	con.Run.MaxCollisions = transport.DefaultMaxCollisions
	return con
}

// ReadConfig reads and validates the configuration file fname.
func ReadConfig(fname string) (*Config, error) {
	text, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	con, err := ParseConfig(string(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return con, nil
}

// ParseConfig reads and validates a configuration from a string.
func ParseConfig(text string) (*Config, error) {
	con := DefaultConfig()
	if err := gcfg.ReadStringInto(con, text); err != nil {
		return nil, err
	}
	con.order = estimatorOrder(text)
	return con, con.CheckInit()
}

var estimatorHeader = regexp.MustCompile(`(?im)^\s*\[\s*estimator\s+"([^"]*)"\s*\]`)

// estimatorOrder returns the names of the Estimator sections of a
// configuration in the order they appear.
func estimatorOrder(text string) []string {
	names := []string{}
	for _, m := range estimatorHeader.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	return names
}

// CheckInit validates every section.
func (con *Config) CheckInit() error {
	if !con.Run.ValidHistories() {
		return fmt.Errorf("Need to specify a positive number of Histories.")
	} else if !con.Run.ValidWorkers() {
		return fmt.Errorf("Workers must be positive, but is %d.", con.Run.Workers)
	} else if !con.Run.ValidOutput() {
		return fmt.Errorf("Output cannot be empty.")
	} else if !con.Run.ValidMaxCollisions() {
		return fmt.Errorf("MaxCollisions must be positive.")
	} else if con.Run.Seed < 0 {
		return fmt.Errorf("Seed must be non-negative, but is %d.", con.Run.Seed)
	}
	if _, err := con.Run.Cutoffs(); err != nil {
		return err
	}

	if !con.Source.ValidParticle() {
		return fmt.Errorf("Source has unrecognized Particle '%s'.", con.Source.Particle)
	} else if !con.Source.ValidEnergy() && !con.Source.ValidSpectrum() {
		return fmt.Errorf("Source needs a positive Energy or a Spectrum file.")
	}

	for name, mat := range con.Material {
		if err := mat.CheckInit(name); err != nil {
			return err
		}
	}
	if len(con.Estimator) == 0 {
		return fmt.Errorf("Need at least one Estimator section.")
	}
	for name, est := range con.Estimator {
		if err := est.CheckInit(name); err != nil {
			return err
		}
	}
	return nil
}

// EstimatorNames returns the estimator names in the order they appear in the
// configuration.
func (con *Config) EstimatorNames() []string {
	names := []string{}
	seen := map[string]bool{}
	for _, name := range con.order {
		if _, ok := con.Estimator[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	// Sections the header scan missed go last.
	rest := []string{}
	for name := range con.Estimator {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

//////////////
// Building //
//////////////

// Build constructs the problem and the estimators described by con. Relative
// data files are resolved against dataDir, which overrides Run.DataDir when
// it is not empty.
func (con *Config) Build(dataDir string) (*transport.Problem, *estimator.Handler, error) {
	if dataDir == "" {
		dataDir = con.Run.DataDir
	}

	src, err := con.buildSource(dataDir)
	if err != nil {
		return nil, nil, err
	}
	geom, err := con.buildSlabs(dataDir)
	if err != nil {
		return nil, nil, err
	}
	cutoffs, err := con.Run.Cutoffs()
	if err != nil {
		return nil, nil, err
	}

	pr := &transport.Problem{
		Geometry: geom, Source: src, Cutoffs: cutoffs,
		MaxCollisions: uint32(con.Run.MaxCollisions),
	}

	h := estimator.NewHandler()
	for i, name := range con.EstimatorNames() {
		est, err := con.Estimator[name].Build(uint64(i+1), geom)
		if err != nil {
			return nil, nil, err
		}
		if err := h.Add(est); err != nil {
			return nil, nil, fmt.Errorf("Estimator '%s': %w", name, err)
		}
	}
	return pr, h, nil
}

func (con *Config) buildSource(dataDir string) (*transport.Source, error) {
	sc := &con.Source
	t, err := particle.ParseType(sc.Particle)
	if err != nil {
		return nil, err
	}
	src := &transport.Source{Type: t, Energy: sc.Energy}

	if sc.Position != "" {
		if src.Position, err = parseVec(sc.Position); err != nil {
			return nil, fmt.Errorf("Source Position: %w", err)
		}
	}
	if sc.Direction != "" {
		if src.Direction, err = parseVec(sc.Direction); err != nil {
			return nil, fmt.Errorf("Source Direction: %w", err)
		} else if src.Direction == (r3.Vec{}) {
			return nil, fmt.Errorf("Source Direction cannot be the zero vector.")
		}
	}
	if sc.ValidSpectrum() {
		if src.Spectrum, err = ReadSpectrum(dataPath(dataDir, sc.Spectrum)); err != nil {
			return nil, err
		}
	}
	return src, src.Validate()
}

func (con *Config) buildSlabs(dataDir string) (*transport.Slabs, error) {
	planes, err := parseFloats(con.Slab.Planes)
	if err != nil {
		return nil, fmt.Errorf("Slab Planes: %w", err)
	}
	names := parseNames(con.Slab.Materials)

	built := map[string]*transport.Material{}
	mats := make([]*transport.Material, len(names))
	for i, name := range names {
		if strings.EqualFold(name, voidMaterial) {
			continue
		}
		if m, ok := built[name]; ok {
			mats[i] = m
			continue
		}
		mc, ok := con.Material[name]
		if !ok {
			return nil, fmt.Errorf("Slab %d uses undefined Material '%s'.", i+1, name)
		}
		m, err := mc.Build(dataDir)
		if err != nil {
			return nil, err
		}
		built[name], mats[i] = m, m
	}

	return transport.NewSlabs(planes, mats)
}

// Build reads the cross sections of the material and constructs its
// reactions.
func (con *MaterialConfig) Build(dataDir string) (*transport.Material, error) {
	t, err := particle.ParseType(con.Particle)
	if err != nil {
		return nil, err
	}
	policy := interpolate.LinLin
	if con.Policy != "" {
		if policy, err = interpolate.ParsePolicy(con.Policy); err != nil {
			return nil, err
		}
	}

	set := collision.NewSet(con.Name)
	for _, line := range con.Reaction {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf(
				"Material '%s': Reaction '%s' must be a reaction type followed "+
					"by a file name.", con.Name, line,
			)
		}
		typ, err := collision.ParseType(fields[0])
		if err != nil {
			return nil, fmt.Errorf("Material '%s': %w", con.Name, err)
		}
		xs, err := ReadCrossSection(dataPath(dataDir, fields[1]), policy)
		if err != nil {
			return nil, err
		}
		r, err := con.reaction(typ, xs)
		if err != nil {
			return nil, err
		}
		set.Add(r)
	}

	m := transport.NewMaterial(con.Name)
	if err := m.Add(t, set, con.Density); err != nil {
		return nil, err
	}
	return m, nil
}

// reaction pairs a reaction type with the scattering law configuration
// files can describe for it.
func (con *MaterialConfig) reaction(
	typ collision.Type, xs *interpolate.Tabulated,
) (collision.Reaction, error) {
	if typ.IsAbsorption() {
		return collision.NewAbsorptionReaction(typ, xs), nil
	}

	needs := func(name string, ok bool) error {
		if ok {
			return nil
		}
		return fmt.Errorf("Material '%s': %s reactions need %s.", con.Name, typ, name)
	}

	switch typ {
	case collision.NuclearElastic:
		if err := needs("a TargetMass", con.TargetMass > 0); err != nil {
			return nil, err
		}
		law := scatter.NewTwoBodyElastic(con.TargetMass, nil)
		return collision.NewScatteringReaction(typ, xs, law, 1), nil

	case collision.NuclearLevelInelastic:
		if err := needs("a TargetMass", con.TargetMass > 0); err != nil {
			return nil, err
		}
		law := scatter.NewCenterOfMassEnergyAngle(
			scatter.NewLevelInelastic(con.TargetMass, con.QValue),
			scatter.Isotropic{}, con.TargetMass,
		)
		return collision.NewScatteringReaction(typ, xs, law, 1), nil

	case collision.NuclearN2N, collision.NuclearFission:
		if err := needs("a Temperature", con.Temperature > 0); err != nil {
			return nil, err
		}
		temp, err := constant(xs, con.Temperature)
		if err != nil {
			return nil, err
		}
		law := scatter.NewEnergyAngle(scatter.NewEvaporation(temp, 0), scatter.Isotropic{})
		if typ == collision.NuclearN2N {
			return collision.NewScatteringReaction(typ, xs, law, 2), nil
		}
		if err := needs("Nu", con.Nu > 0); err != nil {
			return nil, err
		}
		nu, err := constant(xs, con.Nu)
		if err != nil {
			return nil, err
		}
		return collision.NewMultiplyingReaction(typ, xs, law, nu), nil

	case collision.PhotoatomicIncoherent:
		return collision.NewDistributionReaction(typ, xs, scatter.NewKleinNishina(false)), nil
	case collision.PhotoatomicCoherent:
		return collision.NewDistributionReaction(typ, xs, scatter.Thomson{}), nil
	case collision.PhotoatomicPairProduction:
		return collision.NewDistributionReaction(typ, xs, scatter.NewPairProduction(false)), nil
	case collision.PhotoatomicTripletProduction:
		return collision.NewDistributionReaction(typ, xs, scatter.NewTripletProduction(false)), nil
	case collision.PositronatomicAnnihilation:
		return collision.NewDistributionReaction(typ, xs, scatter.Annihilation{}), nil
	}
	return nil, fmt.Errorf(
		"Material '%s': %s reactions need tabulated data which configuration "+
			"files cannot describe.", con.Name, typ,
	)
}

// constant returns a function equal to v over the energy grid of xs.
func constant(xs *interpolate.Tabulated, v float64) (*interpolate.Tabulated, error) {
	grid := xs.Grid()
	vals := make([]float64, len(grid))
	for i := range vals {
		vals[i] = v
	}
	return interpolate.NewTabulated(xs.Searcher(), vals, 0, interpolate.LinLin)
}

// Build constructs the estimator. id is used when the section does not set
// one.
func (con *EstimatorConfig) Build(id uint64, geom *transport.Slabs) (estimator.Estimator, error) {
	if con.ID > 0 {
		id = uint64(con.ID)
	}
	fail := func(err error) (estimator.Estimator, error) {
		return nil, fmt.Errorf("Estimator '%s': %w", con.Name, err)
	}

	ents, err := parseEntities(con.Entities)
	if err != nil {
		return fail(err)
	}
	cfg := estimator.Config{ID: id, Multiplier: con.Multiplier, Entities: ents}

	if con.Norms != "" {
		if cfg.Norms, err = parseFloats(con.Norms); err != nil {
			return fail(err)
		}
	} else if !con.IsSurface() && geom != nil {
		cfg.Norms = make([]float64, len(cfg.Entities))
		for i, cell := range cfg.Entities {
			if cell > uint64(geom.Cells()) {
				return fail(fmt.Errorf("cell %d is not in the geometry", cell))
			}
			cfg.Norms[i] = geom.Thickness(cell)
		}
	}

	for _, name := range parseNames(con.Particles) {
		t, err := particle.ParseType(name)
		if err != nil {
			return fail(err)
		}
		cfg.Types = append(cfg.Types, t)
	}

	if cfg.Space, err = con.phaseSpace(); err != nil {
		return fail(err)
	}

	var est estimator.Estimator
	switch strings.ToLower(con.Kind) {
	case "cellcollisionflux":
		est, err = estimator.NewCellCollisionFlux(cfg)
	case "celltracklengthflux":
		est, err = estimator.NewCellTrackLengthFlux(cfg)
	case "surfaceflux":
		cutoff := con.CosineCutoff
		if cutoff == 0 {
			cutoff = estimator.DefaultCosineCutoff
		}
		est, err = estimator.NewSurfaceFlux(cfg, cutoff)
	case "surfacecurrent":
		est, err = estimator.NewSurfaceCurrent(cfg)
	case "cellpulseheight":
		est, err = estimator.NewCellPulseHeight(cfg)
	default:
		err = fmt.Errorf("unrecognized Kind '%s'", con.Kind)
	}
	if err != nil {
		return fail(err)
	}
	return est, nil
}

func (con *EstimatorConfig) phaseSpace() (*estimator.PhaseSpace, error) {
	dims := []estimator.Discretization{}
	ordered := []struct {
		dim    estimator.Dimension
		bounds string
	}{
		{estimator.EnergyDimension, con.Energy},
		{estimator.CosineDimension, con.Cosine},
		{estimator.TimeDimension, con.Time},
	}
	for _, o := range ordered {
		if o.bounds == "" {
			continue
		}
		bounds, err := parseFloats(o.bounds)
		if err != nil {
			return nil, fmt.Errorf("%s bounds: %w", o.dim, err)
		}
		d, err := estimator.NewOrdered(o.dim, bounds, con.Extend)
		if err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}

	if con.CollisionNumbers > 0 {
		d, err := estimator.NewCollisionNumber(con.CollisionNumbers, con.CollisionNumberLimit)
		if err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	if con.Octants {
		dims = append(dims, estimator.Octant{})
	}
	return estimator.NewPhaseSpace(dims...)
}

/////////////
// Parsing //
/////////////

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// parseFloats parses a comma or whitespace separated list of numbers.
func parseFloats(s string) ([]float64, error) {
	fields := splitList(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("'%s' is not a number", f)
		}
		out[i] = x
	}
	return out, nil
}

func parseNames(s string) []string { return splitList(s) }

// parseEntities parses a list of cell or surface ids. Zero is the outside of
// the geometry and cannot be scored.
func parseEntities(s string) ([]uint64, error) {
	fields := splitList(s)
	out := make([]uint64, len(fields))
	for i, f := range fields {
		id, err := strconv.ParseUint(f, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("entity '%s' is not a positive integer", f)
		}
		out[i] = id
	}
	return out, nil
}

func parseVec(s string) (r3.Vec, error) {
	xs, err := parseFloats(s)
	if err != nil {
		return r3.Vec{}, err
	} else if len(xs) != 3 {
		return r3.Vec{}, fmt.Errorf("'%s' does not have 3 components", s)
	}
	return r3.Vec{X: xs[0], Y: xs[1], Z: xs[2]}, nil
}
