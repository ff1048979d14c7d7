package printing

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
  body { font-family: Arial, Helvetica, sans-serif; color: #0f172a; font-size: 13px; margin: 0; }
  .box { border: 2px solid #cbd5e1; padding: 16px; margin-bottom: 16px; }
  .row { display: flex; justify-content: space-between; gap: 24px; }
  .half { width: 50%; }
  .muted { color: #475569; }
  .small { font-size: 11px; }
  .right { text-align: right; }
  .due { color: #dc2626; font-weight: bold; }
  .stamp { color: #dc2626; border: 2px solid #dc2626; padding: 2px 8px; font-weight: bold; display: inline-block; }
  h1 { font-size: 20px; margin: 0 0 4px; }
  table.lines { width: 100%; border-collapse: collapse; margin-bottom: 16px; }
  table.lines th, table.lines td { border: 1px solid #cbd5e1; padding: 6px 10px; }
  table.lines th { background: #f1f5f9; font-size: 11px; text-align: left; }
  table.lines td.blank { height: 28px; }
  .totals div { display: flex; justify-content: space-between; margin-bottom: 4px; }
  .grand { font-weight: bold; font-size: 15px; border-top: 1px solid #cbd5e1; padding-top: 6px; }
  .sign { margin-top: 24px; padding-top: 12px; border-top: 1px solid #cbd5e1; display: flex; justify-content: flex-end; }
  .sign div { text-align: center; min-width: 200px; }
  .sign .line { border-top: 1px solid #94a3b8; margin-top: 64px; padding-top: 4px; }
  .footer { text-align: center; font-size: 11px; color: #64748b; margin-top: 12px; }
</style>
</head>
<body>
<div class="box">
  <div class="row">
    <div class="row" style="justify-content:flex-start">
      {{with .Shop.LogoURL}}<img src="{{safeURL .}}" alt="Logo" style="height:64px;width:64px;object-fit:contain">{{end}}
      <div>
        <h1>{{with .Shop.Name}}{{upper .}}{{else}}SHOP NAME{{end}}</h1>
        <div class="muted">{{.Shop.Address}}</div>
        <div class="muted">{{.Shop.City}}{{if and .Shop.City .Shop.State}}, {{end}}{{.Shop.State}}</div>
        {{with .Shop.Phone}}<div class="muted">Contact No.: {{.}}</div>{{end}}
        {{with .Shop.Email}}<div class="muted">Email: {{.}}</div>{{end}}
        {{with .Shop.GSTIN}}<div class="muted">GSTIN: {{.}}</div>{{end}}
      </div>
    </div>
    <div class="right">
      <div># Inv. No: {{.InvoiceNumber}}</div>
      <div>Inv. Date: {{date .InvoiceDate}}</div>
      <div>Payment Mode: {{upper .PaymentMode}}</div>
      {{if .DueDate}}<div class="due">Due Date: {{date .DueDate}}</div>{{end}}
      {{if .Cancelled}}<div class="stamp">CANCELLED</div>{{end}}
    </div>
  </div>
  <div class="row" style="margin-top:16px;padding-top:16px;border-top:1px solid #e2e8f0">
    <div class="half">
      <div class="small muted">Bill To</div>
      <div>Name: {{.CustomerName}}</div>
      <div class="muted">Address: {{with .CustomerAddress}}{{.}}{{else}}N/A{{end}}</div>
      <div class="muted">Phone: {{.CustomerPhone}}</div>
    </div>
    <div class="half">
      <div class="small muted">Ship To</div>
      <div>Name: {{.CustomerName}}</div>
      <div class="muted">Address: {{with .CustomerAddress}}{{.}}{{else}}N/A{{end}}</div>
    </div>
  </div>
</div>

<table class="lines">
  <thead>
    <tr><th>Sr</th><th>Goods &amp; Service Description</th><th>HSN</th><th class="right">Quantity</th><th class="right">Rate</th><th class="right">Total</th></tr>
  </thead>
  <tbody>
    {{range $i, $l := .Lines}}
    <tr>
      <td>{{inc $i}}</td>
      <td>{{$l.Name}}</td>
      <td>{{with $l.HSNCode}}{{.}}{{else}}-{{end}}</td>
      <td class="right">{{quantity $l.Quantity}} {{$l.Unit}}</td>
      <td class="right">{{$l.Rate.StringFixed 2}}</td>
      <td class="right">{{$l.Subtotal.StringFixed 2}}</td>
    </tr>
    {{end}}
    {{range blankRows (len .Lines)}}
    <tr><td class="blank"></td><td></td><td></td><td></td><td></td><td></td></tr>
    {{end}}
  </tbody>
</table>

<div class="box">
  <div style="margin-bottom:12px;padding-bottom:12px;border-bottom:1px solid #cbd5e1">
    <div class="small">Amount in Words:</div>
    <div><strong>{{amountInWords .GrandTotal}}</strong></div>
  </div>
  <div class="row">
    <div class="half">
      {{if or .Shop.BankName .Shop.AccountNumber}}
      <div class="small"><strong>Bank Details</strong></div>
      {{with .Shop.BankName}}<div class="small">Bank: {{.}}</div>{{end}}
      {{with .Shop.AccountNumber}}<div class="small">A/c No.: {{.}}</div>{{end}}
      {{with .Shop.IFSCCode}}<div class="small">IFSC: {{.}}</div>{{end}}
      {{with .Shop.BankAddress}}<div class="small">Branch: {{.}}</div>{{end}}
      {{end}}
      {{if or .Shop.UPIID .Shop.UPIQRURL}}
      <div class="small" style="margin-top:8px"><strong>UPI Payment</strong></div>
      {{with .Shop.UPIQRURL}}<img src="{{safeURL .}}" alt="UPI QR" style="height:96px;width:96px;border:1px solid #cbd5e1">{{end}}
      {{with .Shop.UPIID}}<div class="small">UPI ID: {{.}}</div>{{end}}
      {{end}}
    </div>
    <div class="half totals">
      <div><span>Sub-Total:</span><span>{{money .Subtotal}}</span></div>
      <div><span>Discount:</span><span>{{if positive .Discount}}-{{end}}{{money .Discount}}</span></div>
      {{if not (isZero .RoundingOff)}}<div><span>Rounding Off:</span><span>{{if positive .RoundingOff}}+{{end}}{{money .RoundingOff}}</span></div>{{end}}
      <div class="grand"><span>Total Amount:</span><span>{{money .GrandTotal}}</span></div>
      {{if eq .PaymentMode "credit"}}
      <div><span>Paid:</span><span>{{money .AmountPaid}}</span></div>
      <div class="due"><span>Balance Due:</span><span>{{money .BalanceDue}}</span></div>
      {{end}}
    </div>
  </div>
  <div class="sign">
    <div>
      <div class="small">For {{with .Shop.Name}}{{.}}{{else}}SHOP NAME{{end}}</div>
      <div class="line small">Authorised Signatory</div>
    </div>
  </div>
  <div class="footer">{{.Shop.FooterText}}</div>
</div>
</body>
</html>
`
