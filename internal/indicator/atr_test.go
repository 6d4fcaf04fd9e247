package indicator

import (
	"testing"

	"github.com/rxtech-lab/argo-quant/internal/types"
	"github.com/stretchr/testify/suite"
)

type ATRTestSuite struct {
	suite.Suite
}

func TestATRSuite(t *testing.T) {
	suite.Run(t, new(ATRTestSuite))
}

func (suite *ATRTestSuite) TestATR() {
	bars := []types.PriceBar{
		{Open: 10, High: 11, Low: 9, Close: 10},
		// gap up: |14 - 10| beats 14 - 12
		{Open: 13, High: 14, Low: 12, Close: 13},
		{Open: 13, High: 13.5, Low: 12.5, Close: 13},
	}

	suite.InDelta(2, ATR(bars[:1], 14), 1e-9)
	suite.InDelta((2.0+4.0+1.0)/3.0, ATR(bars, 14), 1e-9)
	suite.InDelta((4.0+1.0)/2.0, ATR(bars, 2), 1e-9)
}

func (suite *ATRTestSuite) TestEmpty() {
	suite.Equal(0.0, ATR(nil, 14))
	suite.Equal(0.0, ATR([]types.PriceBar{{High: 2, Low: 1}}, 0))
}
