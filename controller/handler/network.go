package handler

import (
	"walrus-extend/controller/respond"
	"walrus-extend/model/dao"
	"walrus-extend/service/blob_service"
	"walrus-extend/service/dialog_service"
	"walrus-extend/service/network_service"
	"walrus-extend/service/query_service"
	"walrus-extend/service/tip_service"

	"github.com/gin-gonic/gin"
)

// Services dependencies of the HTTP handlers
type Services struct {
	Provider *network_service.Provider
	Status   *network_service.StatusService
	Session  *network_service.WalletSession
	Prefs    *dao.PreferencesDAO
	Cache    *query_service.QueryCache
	Blobs    *blob_service.BlobService
	Tips     *tip_service.TipService
	Balances *tip_service.BalanceService
	History  *tip_service.HistoryService
	Dialog   *dialog_service.Dialog
	Form     *dialog_service.TipForm
}

// ExtendHandler HTTP handlers of the extend service
type ExtendHandler struct {
	svc Services
}

// NewExtendHandler create handler instance
func NewExtendHandler(svc Services) *ExtendHandler {
	if svc.Dialog == nil {
		svc.Dialog = dialog_service.NewDialog()
	}
	if svc.Form == nil {
		svc.Form = dialog_service.NewTipForm(nil)
	}
	return &ExtendHandler{svc: svc}
}

// GetNetwork current and supported networks
// @Summary      Get network
// @Description  Active network, configured networks and their readiness for resolution and tipping
// @Tags         Network
// @Produce      json
// @Success      200  {object}  respond.Response{data=respond.NetworkResponse}
// @Router       /network [get]
func (h *ExtendHandler) GetNetwork(c *gin.Context) {
	respond.Success(c, respond.ToNetworkResponse(h.svc.Provider.Current().String(), h.svc.Provider.Networks()))
}

// SwitchNetwork switch the active network
// @Summary      Switch network
// @Description  Recreates the network clients; in-flight queries of the previous network are cancelled
// @Tags         Network
// @Accept       json
// @Produce      json
// @Param        request  body      respond.SwitchNetworkRequest  true  "Target network"
// @Success      200      {object}  respond.Response{data=respond.NetworkResponse}
// @Failure      400      {object}  respond.Response
// @Failure      422      {object}  respond.Response
// @Router       /network/switch [post]
func (h *ExtendHandler) SwitchNetwork(c *gin.Context) {
	var req respond.SwitchNetworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidParam(c, "network is required")
		return
	}
	if _, err := h.svc.Provider.Switch(req.Network); err != nil {
		respond.Error(c, err)
		return
	}
	respond.Success(c, respond.ToNetworkResponse(h.svc.Provider.Current().String(), h.svc.Provider.Networks()))
}

// GetNetworkStatus current epoch, system state and metrics
// @Summary      Get network status
// @Description  Epoch and system state of the active network; metrics are best effort
// @Tags         Network
// @Produce      json
// @Success      200  {object}  respond.Response{data=network_service.NetworkStatus}
// @Failure      502  {object}  respond.Response
// @Router       /network/status [get]
func (h *ExtendHandler) GetNetworkStatus(c *gin.Context) {
	status, err := h.svc.Status.FetchNetworkStatus(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Success(c, status)
}

// GetGasPrice reference gas price
// @Summary      Get reference gas price
// @Tags         Network
// @Produce      json
// @Success      200  {object}  respond.Response{data=respond.GasPriceResponse}
// @Router       /network/gas-price [get]
func (h *ExtendHandler) GetGasPrice(c *gin.Context) {
	respond.Success(c, respond.GasPriceResponse{
		Network:  h.svc.Provider.Current().String(),
		GasPrice: h.svc.Status.ReferenceGasPrice(c.Request.Context()),
	})
}

// GetProtocolConfig protocol config, null when unavailable
// @Summary      Get protocol config
// @Tags         Network
// @Produce      json
// @Success      200  {object}  respond.Response{data=chain.ProtocolConfig}
// @Router       /network/protocol-config [get]
func (h *ExtendHandler) GetProtocolConfig(c *gin.Context) {
	respond.Success(c, h.svc.Status.ProtocolConfig(c.Request.Context()))
}

// InvalidateCache drops cached query results
// @Summary      Invalidate cached queries
// @Description  Drops cached results of an operation, optionally only those whose first parameter matches
// @Tags         Cache
// @Produce      json
// @Param        operation  query     string  true   "Operation name"  Enums(blob-search, blob-network-info, network-status, gas-price, protocol-config, wal-balance, tip-history)
// @Param        param      query     string  false  "First parameter, e.g. a blob id"
// @Success      200        {object}  respond.Response{data=respond.InvalidateResponse}
// @Failure      400        {object}  respond.Response
// @Router       /cache/invalidate [post]
func (h *ExtendHandler) InvalidateCache(c *gin.Context) {
	op := c.Query("operation")
	if op == "" {
		respond.InvalidParam(c, "operation is required")
		return
	}
	var params []string
	if p := c.Query("param"); p != "" {
		params = append(params, p)
	}
	removed := h.svc.Cache.Invalidate(c.Request.Context(), op, params...)
	respond.Success(c, respond.InvalidateResponse{Operation: op, Removed: removed})
}
