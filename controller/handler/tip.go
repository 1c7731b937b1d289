package handler

import (
	"fmt"
	"log"
	"strconv"

	"walrus-extend/chain"
	"walrus-extend/controller/respond"
	"walrus-extend/service/dialog_service"
	"walrus-extend/service/tip_service"
	"walrus-extend/tool"

	"github.com/gin-gonic/gin"
)

// GetWallet wallet session
// @Summary      Get wallet session
// @Tags         Wallet
// @Produce      json
// @Success      200  {object}  respond.Response{data=respond.WalletResponse}
// @Router       /wallet [get]
func (h *ExtendHandler) GetWallet(c *gin.Context) {
	respond.Success(c, h.walletResponse())
}

func (h *ExtendHandler) walletResponse() respond.WalletResponse {
	account, ok := h.svc.Session.Current()
	if !ok {
		return respond.WalletResponse{}
	}
	return respond.WalletResponse{
		Connected:   true,
		Wallet:      account.Wallet,
		Address:     account.Address,
		ConnectedAt: &account.ConnectedAt,
	}
}

// ConnectWallet connect a wallet account
// @Summary      Connect wallet
// @Description  Marks the account as connected and remembers it for auto-connect
// @Tags         Wallet
// @Accept       json
// @Produce      json
// @Param        request  body      respond.ConnectWalletRequest  true  "Wallet account"
// @Success      200      {object}  respond.Response{data=respond.WalletResponse}
// @Failure      400      {object}  respond.Response
// @Router       /wallet/connect [post]
func (h *ExtendHandler) ConnectWallet(c *gin.Context) {
	var req respond.ConnectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Address == "" && req.PublicKey == "") {
		respond.InvalidParam(c, "address or publicKey is required")
		return
	}
	var err error
	if req.PublicKey != "" {
		var (
			pubKey []byte
			scheme byte
		)
		if pubKey, err = tool.Base64Decode(req.PublicKey); err != nil {
			respond.InvalidParam(c, "publicKey must be base64")
			return
		}
		if scheme, err = chain.ParseScheme(req.Scheme); err != nil {
			respond.InvalidParam(c, err.Error())
			return
		}
		_, err = h.svc.Session.ConnectPublicKey(req.Wallet, req.Address, scheme, pubKey)
	} else {
		_, err = h.svc.Session.Connect(req.Wallet, req.Address)
	}
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Success(c, h.walletResponse())
}

// DisconnectWallet disconnect the wallet
// @Summary      Disconnect wallet
// @Tags         Wallet
// @Produce      json
// @Success      200  {object}  respond.Response{data=respond.WalletResponse}
// @Router       /wallet/disconnect [post]
func (h *ExtendHandler) DisconnectWallet(c *gin.Context) {
	h.svc.Session.Disconnect()
	respond.Success(c, h.walletResponse())
}

// GetWalBalance WAL balance
// @Summary      Get WAL balance
// @Description  Balance of the connected wallet, or of address when given
// @Tags         Wallet
// @Produce      json
// @Param        address  query     string  false  "Sui address"
// @Success      200      {object}  respond.Response{data=tip_service.WalBalance}
// @Failure      401      {object}  respond.Response
// @Failure      422      {object}  respond.Response
// @Router       /wallet/balance [get]
func (h *ExtendHandler) GetWalBalance(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		account, ok := h.svc.Session.Current()
		if !ok {
			respond.Error(c, tip_service.ErrWalletNotConnected)
			return
		}
		address = account.Address
	}
	balance, err := h.svc.Balances.WalBalance(c.Request.Context(), address)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.Success(c, balance)
}

// SendTip tip a blob with the connected wallet
// @Summary      Send tip
// @Description  Builds and submits the tip transaction; the dialog goes open, processing, closed and on success shows tip-successful
// @Tags         Tip
// @Accept       json
// @Produce      json
// @Param        request  body      respond.SendTipRequest  true  "Tip"
// @Success      200      {object}  respond.Response{data=respond.SendTipResponse}
// @Failure      400      {object}  respond.Response
// @Failure      401      {object}  respond.Response
// @Failure      409      {object}  respond.Response
// @Failure      422      {object}  respond.Response
// @Failure      499      {object}  respond.Response
// @Failure      502      {object}  respond.Response
// @Failure      504      {object}  respond.Response
// @Router       /tips [post]
func (h *ExtendHandler) SendTip(c *gin.Context) {
	var req respond.SendTipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidParam(c, "blobId is required")
		return
	}

	form := h.svc.Form
	amount, err := form.Fill(req.BlobId, req.Amount, req.Preset)
	if err != nil {
		respond.Error(c, err)
		return
	}

	dialog := h.svc.Dialog
	if err := dialog.Start(dialog_service.KindTipSharedBlob, dialog_service.Payload{SharedBlobId: req.BlobId}); err != nil {
		respond.Error(c, tip_service.ErrTipInProgress)
		return
	}

	result, err := h.svc.Tips.SendTip(c.Request.Context(), tip_service.TipRequest{
		BlobID:    req.BlobId,
		Amount:    amount,
		Recipient: req.Recipient,
	})
	dialog.Close()
	if err != nil {
		form.SetError(err.Error())
		respond.Error(c, err)
		return
	}

	payload := dialog_service.Payload{
		TransactionId: result.TxHash,
		AmountTipped:  fmt.Sprintf("%s WAL", tip_service.FormatWALUnits(result.TipAmount)),
		SharedBlobId:  result.BlobID,
	}
	if info, err := h.svc.Blobs.Search(c.Request.Context(), result.BlobID); err == nil {
		payload.NewTotalFunds = fmt.Sprintf("%s WAL", tip_service.FormatWALUnits(info.TipBalance))
	} else {
		log.Printf("⚠️  could not refresh funds of %s after tip: %v", result.BlobID, err)
	}
	if err := dialog.Open(dialog_service.KindTipSuccessful, payload); err != nil {
		log.Printf("⚠️  failed to open success dialog: %v", err)
	}
	form.Reset()

	respond.Success(c, respond.SendTipResponse{Result: result, Dialog: dialog.Snapshot()})
}

// ListTipsByBlob tip history of a blob
// @Summary      Tip history by blob
// @Tags         Tip
// @Produce      json
// @Param        blobId  path      string  true   "Blob ID"
// @Param        cursor  query     int     false  "Cursor"     default(0)
// @Param        size    query     int     false  "Page size"  default(20)
// @Success      200     {object}  respond.Response{data=respond.TipHistoryResponse}
// @Failure      500     {object}  respond.Response
// @Router       /tips/blob/{blobId} [get]
func (h *ExtendHandler) ListTipsByBlob(c *gin.Context) {
	cursor, size := pageParams(c)
	page, err := h.svc.History.ListByBlob(c.Request.Context(), c.Param("blobId"), cursor, size)
	if err != nil {
		respond.ServerError(c, err.Error())
		return
	}
	respond.Success(c, respond.ToTipHistoryResponse(page))
}

// ListTipsBySender tip history of a sender
// @Summary      Tip history by sender
// @Tags         Tip
// @Produce      json
// @Param        address  path      string  true   "Sender address"
// @Param        cursor   query     int     false  "Cursor"     default(0)
// @Param        size     query     int     false  "Page size"  default(20)
// @Success      200      {object}  respond.Response{data=respond.TipHistoryResponse}
// @Failure      500      {object}  respond.Response
// @Router       /tips/sender/{address} [get]
func (h *ExtendHandler) ListTipsBySender(c *gin.Context) {
	cursor, size := pageParams(c)
	page, err := h.svc.History.ListBySender(c.Request.Context(), c.Param("address"), cursor, size)
	if err != nil {
		respond.ServerError(c, err.Error())
		return
	}
	respond.Success(c, respond.ToTipHistoryResponse(page))
}

func pageParams(c *gin.Context) (int64, int) {
	cursor, _ := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return cursor, size
}

// GetPreferences persisted preferences
// @Summary      Get preferences
// @Tags         Preferences
// @Produce      json
// @Success      200  {object}  respond.Response{data=respond.PreferencesResponse}
// @Failure      500  {object}  respond.Response
// @Router       /preferences [get]
func (h *ExtendHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.svc.Prefs.Load()
	if err != nil {
		respond.ServerError(c, err.Error())
		return
	}
	respond.Success(c, respond.ToPreferencesResponse(prefs))
}

// UpdatePreferences update auto-connect
// @Summary      Update preferences
// @Tags         Preferences
// @Accept       json
// @Produce      json
// @Param        request  body      respond.UpdatePreferencesRequest  true  "Preferences"
// @Success      200      {object}  respond.Response{data=respond.PreferencesResponse}
// @Failure      400      {object}  respond.Response
// @Router       /preferences [put]
func (h *ExtendHandler) UpdatePreferences(c *gin.Context) {
	var req respond.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.InvalidParam(c, "auto_connect_enabled is required")
		return
	}
	if err := h.svc.Prefs.SetAutoConnect(*req.AutoConnectEnabled); err != nil {
		respond.ServerError(c, err.Error())
		return
	}
	h.GetPreferences(c)
}

// GetDialog dialog and form state
// @Summary      Get dialog state
// @Tags         Dialog
// @Produce      json
// @Success      200  {object}  respond.Response{data=respond.DialogResponse}
// @Router       /dialog [get]
func (h *ExtendHandler) GetDialog(c *gin.Context) {
	respond.Success(c, respond.DialogResponse{
		Dialog:  h.svc.Dialog.Snapshot(),
		Form:    h.svc.Form.State(),
		Presets: h.svc.Form.Presets(),
	})
}

// CloseDialog close the dialog
// @Summary      Close dialog
// @Tags         Dialog
// @Produce      json
// @Success      200  {object}  respond.Response{data=respond.DialogResponse}
// @Failure      409  {object}  respond.Response
// @Router       /dialog/close [post]
func (h *ExtendHandler) CloseDialog(c *gin.Context) {
	if h.svc.Dialog.Snapshot().State == dialog_service.StateProcessing {
		respond.Error(c, tip_service.ErrTipInProgress)
		return
	}
	h.svc.Dialog.Close()
	h.svc.Form.Reset()
	h.GetDialog(c)
}
