package extraction

var instructions = map[Kind]string{
	KindChallan: `This is a fuel delivery challan or supplier invoice.
Return {"records": [...]} with one object per fuel delivered:
{"date": "YYYY-MM-DD", "fuel_id": "petrol|diesel|...", "tank_id": "tank id if written on the challan", "quantity": litres, "amount": invoice amount, "supplier": "...", "invoice_number": "..."}`,

	KindSalesReport: `This is a daily sales report (DSR) of a fuel station.
Return {"records": [...]} with one object per shift:
{"date": "YYYY-MM-DD", "shift": "...", "readings": [{"fuel_id": "...", "nozzle_id": "...", "opening": totalizer, "closing": totalizer, "testing": litres}], "collections": {"cash": 0, "digital": 0, "credit": 0}}`,

	KindBankStatement: `This is a bank statement.
Return {"records": [...]} with one object per transaction line:
{"date": "YYYY-MM-DD", "description": "...", "debit": amount withdrawn or 0, "credit": amount deposited or 0, "reference": "cheque or UTR number"}`,
}
