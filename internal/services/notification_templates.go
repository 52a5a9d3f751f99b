package services

// Staff notification bodies. Every %s is HTML-escaped before substitution.

const notificationHTMLLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<style>
  body { font-family: Arial, sans-serif; line-height: 1.5; color: #222; }
  .container { border: 1px solid #ddd; border-radius: 6px; padding: 16px; max-width: 600px; }
  h2 { margin-top: 0; color: #2e7d32; }
  ul { list-style: none; padding: 0; }
  li { margin-bottom: 6px; }
  pre { white-space: pre-wrap; background: #f7f7f7; padding: 12px; border-radius: 6px; }
</style>
</head>
<body>
  <div class="container">
    <h2>%s</h2>
    <ul>
%s    </ul>
%s    <p style="font-size:12px;color:#777;">Received %s (UTC)</p>
  </div>
</body>
</html>`

const notificationHTMLField = "      <li><strong>%s:</strong> %s</li>\n"

const notificationHTMLBlock = "    <p><strong>%s:</strong></p>\n    <pre>%s</pre>\n"
