package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/params", s.handleGetParams)

		pairs := v1.Group("/pairs")
		{
			pairs.GET("", s.handleGetPairs)
			pairs.GET("/:index", s.handleGetPairByIndex)
		}
		v1.GET("/pair", s.handleGetPair)

		pools := v1.Group("/pools")
		{
			pools.GET("/:pool_id", s.handleGetPool)
			pools.GET("/:pool_id/price", s.handleGetSpotPrice)
			pools.GET("/:pool_id/observation", s.handleGetObservation)
			pools.GET("/:pool_id/shares/:holder", s.handleGetShares)
		}

		quote := v1.Group("/quote")
		{
			quote.GET("/out", s.handleQuoteOut)
			quote.GET("/in", s.handleQuoteIn)
			quote.GET("/deposit", s.handleQuoteDeposit)
		}

		v1.GET("/balances/:holder", s.handleGetBalance)
	}
}
