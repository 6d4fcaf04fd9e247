package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/rxtech-lab/argo-quant/mocks"
	"github.com/stretchr/testify/suite"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestKnownValues() {
	// mean 5, population variance 4
	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	bands := BollingerBands(closes, 8, 2)

	suite.InDelta(5, bands.Middle, 1e-9)
	suite.InDelta(9, bands.Upper, 1e-9)
	suite.InDelta(1, bands.Lower, 1e-9)
}

func (suite *BollingerBandsTestSuite) TestEmptyAndShort() {
	suite.Equal(types.BandsResult{}, BollingerBands(nil, 20, 2))

	short := BollingerBands([]float64{10, 20}, 20, 2)
	suite.InDelta(15, short.Middle, 1e-9)
	suite.InDelta(25, short.Upper, 1e-9)
	suite.InDelta(5, short.Lower, 1e-9)
}

func (suite *BollingerBandsTestSuite) TestConstantSeriesCollapses() {
	bands := BollingerBands([]float64{3, 3, 3, 3}, 3, 2)
	suite.Equal(3.0, bands.Upper)
	suite.Equal(3.0, bands.Middle)
	suite.Equal(3.0, bands.Lower)
}

func (suite *BollingerBandsTestSuite) TestOrdering() {
	for seed := int64(1); seed <= 10; seed++ {
		closes := types.Closes(mocks.NewDataGenerator(seed).Generate(mocks.DefaultConfig()))

		for i := range closes {
			for _, multiplier := range []float64{0, 1, 2.5, -2} {
				bands := BollingerBands(closes[:i+1], 20, multiplier)
				suite.LessOrEqual(bands.Lower, bands.Middle)
				suite.LessOrEqual(bands.Middle, bands.Upper)
			}
		}
	}
}
