package services

const receiptSubject = "Rent payment received for %s"

const receiptText = `Hi %s,

We recorded your payment of %s for %s by %s. Status: %s.
`

const receiptHTML = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #1f2937; background-color: #f0fdf4; margin: 0; padding: 20px; }
.container { padding: 20px; max-width: 600px; margin: 20px auto; background-color: #ffffff; border: 1px solid #bbf7d0; border-radius: 8px; }
.content { padding: 20px; }
.footer { margin-top: 20px; font-size: 12px; color: #6b7280; text-align: center; }
</style>
</head>
<body>
  <div class="container">
    <div class="content">
      <p>Hi %s,</p>
      <p>We recorded your payment of <strong>%s</strong> for <strong>%s</strong> by %s.</p>
      <p>Status: %s</p>
    </div>
    <div class="footer">
      © %d %s. All rights reserved.
    </div>
  </div>
</body>
</html>`
